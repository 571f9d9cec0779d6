package grpcapi

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	protoFile    = "scheduling/v1/staff.proto"
	protoPackage = "scheduling.v1"
	protoService = "StaffScheduling"
)

// staffFileDescriptor описывает scheduling/v1/staff.proto: все методы принимают
// и возвращают google.protobuf.Struct.
func staffFileDescriptor() *descriptorpb.FileDescriptorProto {
	structType := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	methods := make([]*descriptorpb.MethodDescriptorProto, 0, len(ServiceDesc.Methods))
	for _, m := range ServiceDesc.Methods {
		methods = append(methods, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m.MethodName),
			InputType:  proto.String(structType),
			OutputType: proto.String(structType),
		})
	}

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String(protoPackage),
		Dependency: []string{structpb.File_google_protobuf_struct_proto.Path()},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{Name: proto.String(protoService), Method: methods},
		},
		Syntax: proto.String("proto3"),
	}
}

// Регистрация нужна reflection: без неё сервис виден в списке, но не описывается.
func init() {
	fd, err := protodesc.NewFile(staffFileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("grpcapi: build %s: %v", protoFile, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("grpcapi: register %s: %v", protoFile, err))
	}
}
