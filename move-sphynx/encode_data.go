package main

import (
	"github.com/lynxkite/lynxkite/move/tasks"
)

func init() {
	operationRepository["EncodeData"] = Operation{
		execute: func(ea *EntityAccessor) error {
			cfg, err := ea.GetConfigParam("config")
			if err != nil {
				return err
			}
			if err := tasks.EncodeData(cfg); err != nil {
				return err
			}
			a, err := tasks.Assemble(cfg)
			if err != nil {
				return err
			}
			if err := ea.output("data", &AssembledData{a}); err != nil {
				return err
			}
			return ea.outputScalar("shapes", map[string]interface{}{
				"NumSamples":  a.NumSamples,
				"Categorical": a.CategoricalShapes,
				"Continuous":  a.ContinuousShapes,
			})
		},
	}
}
