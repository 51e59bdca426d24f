package main

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lynxkite/lynxkite/move/moveio"
	"github.com/lynxkite/lynxkite/move/visualization"
)

// FeatureEffectsChart plots an effects matrix stored as an Arrow array.
func init() {
	operationRepository["FeatureEffectsChart"] = Operation{
		execute: func(ea *EntityAccessor) error {
			a, err := moveio.LoadArray(ea.GetStringParam("effects"))
			if err != nil {
				return err
			}
			effects, err := a.Dense()
			if err != nil {
				return err
			}
			guid := ea.opInst.GUID
			if guid == "" {
				guid = GUID(uuid.New().String())
			}
			dirName := runDir(ea.server.dataDir, guid)
			path := filepath.Join(dirName, "effects.png")
			features := ea.GetStringVectorParam("features")
			column := ea.GetIntParamWithDefault("column", 0)
			if err := mkdir(dirName); err != nil {
				return err
			}
			if err := visualization.FeatureEffects(effects, features, column, path); err != nil {
				return err
			}
			if err := markSuccess(ea.server.dataDir, guid); err != nil {
				return err
			}
			if err := ea.output("effects", &Matrix{effects}); err != nil {
				return err
			}
			return ea.outputScalar("chart", path)
		},
	}
}
