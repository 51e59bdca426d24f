// Implementations of MOVE server operations.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/lynxkite/lynxkite/move/config"
)

type EntityAccessor struct {
	inputs  map[string]Entity
	outputs map[GUID]Entity
	opInst  *OperationInstance
	server  *Server
}

func collectInputs(server *Server, opInst *OperationInstance) (map[string]Entity, error) {
	inputs := make(map[string]Entity, len(opInst.Inputs))
	for name, guid := range opInst.Inputs {
		entity, exists := server.entityCache.Get(guid)
		if !exists {
			return nil, NotInCacheError("input", guid)
		}
		inputs[name] = entity
	}
	return inputs, nil
}

func (ea *EntityAccessor) output(name string, entity Entity) error {
	guid, exists := ea.opInst.Outputs[name]
	if !exists {
		return fmt.Errorf("Could not find '%v' among output names", name)
	}
	ea.outputs[guid] = entity
	return nil
}

func (ea *EntityAccessor) outputScalar(name string, value interface{}) error {
	s, err := ScalarFrom(value)
	if err != nil {
		return err
	}
	return ea.output(name, &s)
}

func (ea *EntityAccessor) getAssembledData(name string) (*AssembledData, error) {
	switch e := ea.inputs[name].(type) {
	case *AssembledData:
		return e, nil
	default:
		return nil, fmt.Errorf("Input %v is a %T, not assembled data", name, e)
	}
}

func (ea *EntityAccessor) GetStringParam(name string) string {
	return ea.opInst.Operation.Data[name].(string)
}

func (ea *EntityAccessor) GetIntParamWithDefault(name string, dflt int) int {
	field, exists := ea.opInst.Operation.Data[name]
	if exists {
		return int(field.(float64))
	}
	return dflt
}

func (ea *EntityAccessor) GetStringVectorParam(name string) []string {
	interfaceSlice := ea.opInst.Operation.Data[name].([]interface{})
	stringSlice := make([]string, len(interfaceSlice))
	for i, elem := range interfaceSlice {
		stringSlice[i] = elem.(string)
	}
	return stringSlice
}

// GetConfigParam reads a data config from the parameters of the operation.
func (ea *EntityAccessor) GetConfigParam(name string) (config.Data, error) {
	var cfg config.Data
	raw, err := json.Marshal(ea.opInst.Operation.Data[name])
	if err != nil {
		return cfg, fmt.Errorf("Error while marshaling %v: %v", name, err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("Error while unmarshaling %v: %v", name, err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = moveWorkers
	}
	return cfg, cfg.Validate()
}

type Operation struct {
	execute func(ea *EntityAccessor) error
}

var operationRepository = map[string]Operation{}
