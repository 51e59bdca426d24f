package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/dataset"
	"github.com/lynxkite/lynxkite/move/moveerrors"
	"github.com/lynxkite/lynxkite/move/perturbation"
)

type perturbationRun struct {
	Run   GUID
	Count int
}

// PerturbData writes one batch per feature of the target dataset and the baseline batch last.
// The run is stored under the GUID of the operation instance, or a fresh one if it has none.
func init() {
	operationRepository["PerturbData"] = Operation{
		execute: func(ea *EntityAccessor) error {
			a, err := ea.getAssembledData("data")
			if err != nil {
				return err
			}
			target := ea.GetStringParam("target")
			shape, err := a.CategoricalShapes.Lookup(target)
			if err != nil {
				return errors.Annotatef(err, "cannot perturb")
			}
			mapping, exists := a.Mappings[target]
			if !exists {
				return errors.Annotatef(moveerrors.UnknownDataset(target), "no mapping")
			}
			value, err := perturbation.TargetValue(mapping, ea.GetStringParam("label"))
			if err != nil {
				return err
			}
			run := ea.opInst.GUID
			if run == "" {
				run = GUID(uuid.New().String())
			}
			dataDir := ea.server.dataDir
			workers := ea.GetIntParamWithDefault("workers", moveWorkers)
			err = perturbation.Each(context.Background(), a.Assembled, target, value, workers,
				func(ctx context.Context, feature int, l *dataset.Loader) error {
					return saveLoader(dataDir, run, feature, l)
				})
			if err != nil {
				return err
			}
			if err := markSuccess(dataDir, run); err != nil {
				return err
			}
			count := shape.Features + 1
			log.Printf("Wrote %d perturbation batches of %v to %v", count, target, run)
			return ea.outputScalar("perturbations", perturbationRun{Run: run, Count: count})
		},
	}
}
