package response

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingSeparatorBeforeBrace(t *testing.T) {
	broken := "{\n  \"a\": 1,\n}"

	var v map[string]any
	require.Error(t, sonic.UnmarshalString(broken, &v))

	fixed := Repair(broken)
	assert.Equal(t, "{\n  \"a\": 1\n}", fixed)
	require.NoError(t, sonic.UnmarshalString(fixed, &v))
	assert.EqualValues(t, 1, v["a"])
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name string
		pass func(string) string
		in   string
		want string
	}{
		{"trailing comma in array", TrimTrailingSeparators, "[1, 2, ]", "[1, 2 ]"},
		{"trailing comma nested", TrimTrailingSeparators, "{\"a\": [1,\n],\n}", "{\"a\": [1\n]\n}"},
		{"comma inside string kept", TrimTrailingSeparators, `{"a": ",}"}`, `{"a": ",}"}`},
		{"objects in array", InsertStructuralSeparators, "[{\"a\": 1}\n{\"b\": 2}]", "[{\"a\": 1},\n{\"b\": 2}]"},
		{"string then key", InsertStructuralSeparators, "{\"a\": \"x\"\n\"b\": \"y\"}", "{\"a\": \"x\",\n\"b\": \"y\"}"},
		{"array then key", InsertStructuralSeparators, `{"a": [] "b": 1}`, `{"a": [], "b": 1}`},
		{"escaped quote", InsertStructuralSeparators, `{"a": "say \"hi\" ok"}`, `{"a": "say \"hi\" ok"}`},
		{"number then key", InsertLiteralSeparators, "{\"a\": 90\n\"b\": 1}", "{\"a\": 90,\n\"b\": 1}"},
		{"bool then key", InsertLiteralSeparators, `{"a": true "b": null "c": 1}`, `{"a": true, "b": null, "c": 1}`},
		{"numbers in array", InsertLiteralSeparators, "[1 2 -3.5e2]", "[1, 2, -3.5e2]"},
		{"digits in string", InsertLiteralSeparators, `{"t": "09:00 10"}`, `{"t": "09:00 10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pass(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, tt.pass(got), "pass must be idempotent")
		})
	}
}

func TestRepairLeavesValidJSONUnchanged(t *testing.T) {
	valid := []string{
		`{}`,
		`[]`,
		`{"a": "", "b": "\"", "c": "\\"}`,
		`{"plan_title": "学习计划 - 第一天", "tasks": [{"time": "09:00-10:30", "duration": 90, "priority": "高"}]}`,
		"{\n  \"a\": [1, 2.5, -3, true, false, null],\n  \"b\": {\"c\": [{}, []]}\n}",
		`["}", "]", ",", "\" {"]`,
		`{"nested": {"x": [[1], [2]]}, "y": 1e10}`,
	}

	for _, in := range valid {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, in, Repair(in))
		})
	}
}

func TestPassOrder(t *testing.T) {
	names := make([]string, 0, 3)
	for _, p := range Passes() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"trim_trailing_separators",
		"insert_structural_separators",
		"insert_literal_separators",
	}, names)
}

func TestRepairCombined(t *testing.T) {
	broken := `{"tasks": [{"duration": 90 "priority": "高"} {"duration": 30,},]}`

	var v map[string]any
	require.NoError(t, sonic.UnmarshalString(Repair(broken), &v))
	assert.Len(t, v["tasks"], 2)
}
