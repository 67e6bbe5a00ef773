package grpc

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDescMatchesProto(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", TipJarServiceDesc.Metadata.(string)))
	require.NoError(t, err)

	assert.Contains(t, string(raw), "package tipjar.v1;")
	assert.Contains(t, string(raw), "service TipJarService {")

	var rpcs []string
	for _, m := range regexp.MustCompile(`rpc (\w+)\(google\.protobuf\.Struct\) returns \(google\.protobuf\.Struct\)`).FindAllStringSubmatch(string(raw), -1) {
		rpcs = append(rpcs, m[1])
	}
	var methods []string
	for _, m := range TipJarServiceDesc.Methods {
		methods = append(methods, m.MethodName)
	}
	assert.Equal(t, rpcs, methods)
	assert.Equal(t, ServiceName, "tipjar.v1.TipJarService")
}
