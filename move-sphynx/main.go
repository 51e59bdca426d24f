// The MOVE server is a gRPC server that encodes multi-omics datasets and runs perturbations on
// them. Encoded datasets are kept in memory between requests, and perturbation batches are
// written to disk as Arrow files for a model to consume.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/lynxkite/lynxkite/move/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/protobuf/types/known/structpb"
)

var moveWorkers = config.GetNumericEnv("MOVE_WORKERS", runtime.NumCPU())

func OperationInstanceFromJSON(opJSON string) (OperationInstance, error) {
	var opInst OperationInstance
	if err := json.Unmarshal([]byte(opJSON), &opInst); err != nil {
		return opInst, fmt.Errorf("Error while unmarshaling operation: %v", err)
	}
	return opInst, nil
}

func NewServer(dataDir string) *Server {
	os.MkdirAll(dataDir, 0775)
	return &Server{
		entityCache: NewEntityCache(cachedEntitiesMaxMem),
		dataDir:     dataDir,
	}
}

// Compute runs the operation instance given as JSON in the "operation" field. The reply maps the
// output names to the values of scalar outputs and the type names of the rest.
func (s *Server) Compute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	opInst, err := OperationInstanceFromJSON(in.GetFields()["operation"].GetStringValue())
	if err != nil {
		return nil, err
	}
	log.Printf("Computing %v.", opInst.Operation.Class)
	op, exists := operationRepository[opInst.Operation.Class]
	if !exists {
		return nil, fmt.Errorf("Can't compute %v", opInst.Operation.Class)
	}
	inputs, err := collectInputs(s, &opInst)
	if err != nil {
		return nil, err
	}
	ea := EntityAccessor{inputs: inputs, outputs: make(map[GUID]Entity), opInst: &opInst, server: s}
	if err := op.execute(&ea); err != nil {
		log.Printf("Failed to compute %v: %v", opInst.Operation.Class, err)
		return nil, err
	}
	outputs := make(map[string]interface{}, len(ea.outputs))
	for name, guid := range opInst.Outputs {
		entity, exists := ea.outputs[guid]
		if !exists {
			continue
		}
		s.entityCache.Set(guid, entity)
		switch e := entity.(type) {
		case *Scalar:
			var v interface{}
			if err := e.LoadTo(&v); err != nil {
				return nil, err
			}
			outputs[name] = v
		default:
			outputs[name] = e.typeName()
		}
	}
	return structpb.NewStruct(map[string]interface{}{"outputs": outputs})
}

func (s *Server) HasOnDisk(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	guid := GUID(in.GetFields()["guid"].GetStringValue())
	has, err := hasOnDisk(s.dataDir, guid)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]interface{}{"has_on_disk": has})
}

// Clear drops the cached entities for the "Memory" domain and the written runs for "Disk".
func (s *Server) Clear(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	switch domain := in.GetFields()["domain"].GetStringValue(); domain {
	case "Memory":
		s.entityCache.Clear()
	case "Disk":
		os.RemoveAll(s.dataDir)
		os.MkdirAll(s.dataDir, 0775)
	default:
		return nil, fmt.Errorf("Unknown domain: %q", domain)
	}
	return &structpb.Struct{}, nil
}

func main() {
	port := os.Getenv("MOVE_PORT")
	if port == "" {
		log.Fatalf("Please set MOVE_PORT.")
	}
	debugPort := os.Getenv("MOVE_DEBUG_PORT")
	if debugPort != "" {
		go func() error {
			return http.ListenAndServe(fmt.Sprintf(":%s", debugPort), nil)
		}()
	}
	keydir := os.Getenv("MOVE_CERT_DIR")
	var s *grpc.Server
	if keydir != "" {
		creds, err := credentials.NewServerTLSFromFile(keydir+"/cert.pem", keydir+"/private-key.pem")
		if err != nil {
			log.Fatalf("failed to read credentials: %v", err)
		}
		s = grpc.NewServer(grpc.Creds(creds))
	} else {
		s = grpc.NewServer()
	}
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	dataDir := os.Getenv("MOVE_DATA_DIR")
	if dataDir == "" {
		log.Fatalf("Please set MOVE_DATA_DIR.")
	}
	RegisterMoveServer(s, NewServer(dataDir))
	log.Printf("MOVE server listening on port %v", port)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
