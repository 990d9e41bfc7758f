package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepMergeNestedMaps(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1, "y": 2}}
	override := map[string]any{"a": map[string]any{"y": 3, "z": 4}}

	got := DeepMerge(base, override)

	assert.Equal(t, map[string]any{"a": map[string]any{"x": 1, "y": 3, "z": 4}}, got)
}

func TestDeepMergeScalarsReplace(t *testing.T) {
	base := map[string]any{"k": 10, "name": "exact"}
	override := map[string]any{"k": 20}

	got := DeepMerge(base, override)

	assert.Equal(t, 20, got["k"])
	assert.Equal(t, "exact", got["name"])
}

func TestDeepMergeSlicesReplaceWholesale(t *testing.T) {
	base := map[string]any{"metrics": []any{"overlap", "lid"}}
	override := map[string]any{"metrics": []any{"barycenter"}}

	got := DeepMerge(base, override)

	assert.Equal(t, []any{"barycenter"}, got["metrics"])
}

func TestDeepMergeMappingOverScalar(t *testing.T) {
	base := map[string]any{"input": "results.yaml"}
	override := map[string]any{"input": map[string]any{"path": "results.db"}}

	got := DeepMerge(base, override)

	assert.Equal(t, map[string]any{"path": "results.db"}, got["input"])
}

func TestDeepMergeScalarOverMapping(t *testing.T) {
	base := map[string]any{"output": map[string]any{"format": "json"}}
	override := map[string]any{"output": nil}

	got := DeepMerge(base, override)

	assert.Contains(t, got, "output")
	assert.Nil(t, got["output"])
}

func TestDeepMergeNilBase(t *testing.T) {
	got := DeepMerge(nil, map[string]any{"a": 1})

	assert.Equal(t, map[string]any{"a": 1}, got)
}

func TestDeepMergeNormalizesAnyKeys(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	override := map[string]any{"a": map[any]any{"y": 2, 3: "three"}}

	got := DeepMerge(base, override)

	assert.Equal(t, map[string]any{"x": 1, "y": 2, "3": "three"}, got["a"])
}
