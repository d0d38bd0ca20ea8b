package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/orderportal/backend/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

type operation struct {
	Security  []map[string][]string `json:"security"`
	Responses map[string]struct {
		Headers map[string]any `json:"headers"`
	} `json:"responses"`
}

func readDoc(t *testing.T) map[string]map[string]operation {
	t.Helper()
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc.Paths
}

func TestDoc_SLIResponseHeaders(t *testing.T) {
	paths := readDoc(t)

	tests := []struct {
		path, method string
		headers      []string
	}{
		{"/api/v1/sli/{source}/{id}/pdf", "get", []string{"X-Page-Count", "X-Render-Mode", "X-Archive-URL", "X-Checkbox-Conflicts"}},
		{"/api/v1/sli/render", "post", []string{"X-Page-Count", "X-Render-Mode", "X-Archive-URL", "X-Checkbox-Conflicts"}},
		{"/api/v1/sli/{source}/{id}/summary.xlsx", "get", []string{"X-Page-Count"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			op, ok := paths[tt.path][tt.method]
			require.True(t, ok)
			for _, h := range tt.headers {
				assert.Contains(t, op.Responses["200"].Headers, h)
			}
			require.Len(t, op.Security, 1)
			assert.Contains(t, op.Security[0], "BearerAuth")
		})
	}
}

func TestDoc_PreviewAndHealth(t *testing.T) {
	paths := readDoc(t)

	preview, ok := paths["/api/v1/sli/{source}/{id}/preview"]["get"]
	require.True(t, ok)
	assert.Contains(t, preview.Responses, "422")

	health, ok := paths["/health"]["get"]
	require.True(t, ok)
	assert.Empty(t, health.Security)
}
