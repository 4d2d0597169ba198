package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog override file, validates it, and fills gaps from the
// built-in catalog. File order is preserved; it is the install order.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	if len(data) == 0 {
		return Catalog{}, errors.New("catalog file is empty")
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("unmarshal catalog: %w", err)
	}
	cat.applyDefaults()

	if err := cat.validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c *Catalog) applyDefaults() {
	defaults := Default()
	if len(c.Packages) == 0 {
		c.Packages = defaults.Packages
	}
	if c.IDESuite.ID == "" {
		c.IDESuite = defaults.IDESuite
	}
	if len(c.IDEPackages) == 0 {
		c.IDEPackages = defaults.IDEPackages
	}
	if c.SDK.URL == "" {
		c.SDK = defaults.SDK
	}
}

func (c Catalog) validate() error {
	var errs []string
	seen := map[string]struct{}{}

	check := func(section string, idx int, d Descriptor) {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			errs = append(errs, fmt.Sprintf("%s entry %d: missing id", section, idx+1))
			return
		}
		if strings.ContainsAny(id, " \t") {
			errs = append(errs, fmt.Sprintf("%s entry %d: id %q contains whitespace", section, idx+1, id))
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Sprintf("%s entry %d: duplicate id %q", section, idx+1, id))
		}
		seen[id] = struct{}{}
	}

	for i, d := range c.Packages {
		check("packages", i, d)
	}
	check("ide_suite", 0, c.IDESuite.Descriptor)
	for i, d := range c.IDEPackages {
		check("ide_packages", i, d)
	}

	if strings.TrimSpace(c.SDK.Root) == "" {
		errs = append(errs, "sdk: missing root directory")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}
