package metadata

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bergvall/intercept-go/contracts"
)

// Config is the YAML shape of the declarative descriptor table.
//
//	services:
//	  - name: OrderService
//	    implements: [Auditable]
//	    interceptors:
//	      - kind: logging
//	        order: 0
//	    methods:
//	      - name: PlaceOrder
//	        interceptors:
//	          - kind: retry
//	            order: 10
//	            args: [3]
//	        suppress:
//	          kinds: [caching]
type Config struct {
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig declares one service in the table.
type ServiceConfig struct {
	Name         string             `yaml:"name"`
	Implements   []string           `yaml:"implements"`
	Interceptors []DescriptorConfig `yaml:"interceptors"`
	Methods      []MethodConfig     `yaml:"methods"`
}

// MethodConfig declares one method's attachments.
type MethodConfig struct {
	Name         string             `yaml:"name"`
	Interceptors []DescriptorConfig `yaml:"interceptors"`
	Suppress     *SuppressConfig    `yaml:"suppress"`
}

// DescriptorConfig declares one interceptor attachment.
type DescriptorConfig struct {
	Kind  string `yaml:"kind"`
	Order int    `yaml:"order"`
	Args  []any  `yaml:"args"`
}

// SuppressConfig declares a method-level suppression. All suppresses
// every inherited descriptor; otherwise only the listed kinds are
// removed. Setting both is rejected.
type SuppressConfig struct {
	All   bool     `yaml:"all"`
	Kinds []string `yaml:"kinds"`
}

// ParseConfig decodes a YAML descriptor table. Unknown fields are
// rejected so that typos fail at startup instead of silently dropping
// attachments.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing descriptor table: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a YAML descriptor table from r and
// registers every service it declares.
func LoadConfig(r io.Reader, registry *Registry) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading descriptor table: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return err
	}
	return cfg.Apply(registry)
}

// Apply registers every service declared in the config.
func (c *Config) Apply(registry *Registry) error {
	for _, sc := range c.Services {
		def, err := sc.toDef()
		if err != nil {
			return err
		}
		if err := registry.RegisterService(def); err != nil {
			return err
		}
	}
	return nil
}

func (sc ServiceConfig) toDef() (ServiceDef, error) {
	def := ServiceDef{
		Name:       sc.Name,
		Implements: sc.Implements,
		Methods:    make(map[string]MethodDef, len(sc.Methods)),
	}
	for _, dc := range sc.Interceptors {
		def.Descriptors = append(def.Descriptors, dc.toDescriptor(contracts.SiteService))
	}
	for _, mc := range sc.Methods {
		if _, dup := def.Methods[mc.Name]; dup {
			return ServiceDef{}, contracts.NewConfigError(
				fmt.Sprintf("service %s declares method %s twice", sc.Name, mc.Name), nil)
		}
		m := MethodDef{}
		for _, dc := range mc.Interceptors {
			m.Descriptors = append(m.Descriptors, dc.toDescriptor(contracts.SiteMethod))
		}
		if mc.Suppress != nil {
			if mc.Suppress.All && len(mc.Suppress.Kinds) > 0 {
				return ServiceDef{}, contracts.NewConfigError(
					fmt.Sprintf("service %s method %s sets both suppress.all and suppress.kinds", sc.Name, mc.Name), nil)
			}
			if !mc.Suppress.All && len(mc.Suppress.Kinds) == 0 {
				return ServiceDef{}, contracts.NewConfigError(
					fmt.Sprintf("service %s method %s declares an empty suppression", sc.Name, mc.Name), nil)
			}
			m.Suppressions = append(m.Suppressions, contracts.Suppression{Kinds: mc.Suppress.Kinds})
		}
		def.Methods[mc.Name] = m
	}
	return def, nil
}

func (dc DescriptorConfig) toDescriptor(site contracts.DeclarationSite) contracts.ProviderDescriptor {
	return contracts.ProviderDescriptor{
		Kind:  dc.Kind,
		Order: dc.Order,
		Args:  dc.Args,
		Site:  site,
	}
}
