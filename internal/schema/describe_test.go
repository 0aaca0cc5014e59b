package schema

import (
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	out := solarSchema().Describe()

	for _, want := range []string{
		"SolarSystem",
		"name (string) : required",
		"planets (list of Planet child) : defaults to empty list",
		"mass (float) : defaults to 0",
		"solar_system (SolarSystem ref) : required",
		"nearest_neighbor (Planet ref) : optional",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe output missing %q:\n%s", want, out)
		}
	}
}
