package help

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestQuickstartYAML_Parses(t *testing.T) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(QuickstartYAML), &doc); err != nil {
		t.Fatalf("QuickstartYAML is not valid YAML: %v", err)
	}
	for _, section := range []string{"layout", "commands", "generated_files", "error_behavior"} {
		if _, ok := doc[section]; !ok {
			t.Errorf("QuickstartYAML missing section %q", section)
		}
	}
}
