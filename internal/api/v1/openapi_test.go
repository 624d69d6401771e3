package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docPath = "../../../public/docs/v1/openapi.yml"

func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(docPath)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	// every registered route is documented
	for path, methods := range map[string][]string{
		"/ping":                     {"GET"},
		"/generations":              {"GET", "POST"},
		"/generations/{id}":         {"GET"},
		"/generations/{id}/caption": {"PATCH"},
		"/usage":                    {"GET"},
		"/templates":                {"GET"},
	} {
		item := doc.Paths.Find(path)
		require.NotNil(t, item, path)
		for _, m := range methods {
			assert.NotNil(t, item.GetOperation(m), "%s %s", m, path)
		}
	}
}
