package cmd

import (
	"fmt"
	"os"

	"fulfillment/internal/core/application/usecases/commands"

	"gopkg.in/yaml.v3"
)

// roleCatalogue is the layout of the role catalogue file.
type roleCatalogue struct {
	Roles []commands.RoleDefinition `yaml:"roles"`
}

// LoadRoleDefinitions reads the role catalogue at path. Unknown keys are
// rejected so that typos do not silently drop grants.
func LoadRoleDefinitions(path string) ([]commands.RoleDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open role catalogue: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	var catalogue roleCatalogue
	if err := decoder.Decode(&catalogue); err != nil {
		return nil, fmt.Errorf("decode role catalogue %s: %w", path, err)
	}
	return catalogue.Roles, nil
}
