package bitfield

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config declares models from a YAML document:
//
//	max_bits: 31
//	models:
//	  - name: user
//	    table: users
//	    reserved: [active]
//	    columns:
//	      - name: id
//	        type: integer
//	      - name: status
//	        type: integer
//	        flags: [active, inactive, foo, bar]
//	        prefix: status_
//	        accessor: _status
//	        nullable: true
type Config struct {
	// MaxBits caps the flag count of every bit field column. Zero keeps the type limits.
	MaxBits int           `yaml:"max_bits"`
	Models  []ModelConfig `yaml:"models"`
}

type ModelConfig struct {
	Name     string         `yaml:"name"`
	Table    string         `yaml:"table"`
	Reserved []string       `yaml:"reserved"`
	Columns  []ColumnConfig `yaml:"columns"`
}

type ColumnConfig struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Flags    []string `yaml:"flags"`
	Prefix   string   `yaml:"prefix"`
	Accessor string   `yaml:"accessor"`
	Nullable bool     `yaml:"nullable"`
	MaxBits  int      `yaml:"max_bits"`
}

// LoadConfig reads and validates the config file path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return cfg, nil
}

func (this *Config) Validate() (err error) {
	var errs Errors
	if this.MaxBits < 0 || this.MaxBits > MaxBits {
		errs = errs.Add(errors.Errorf("max_bits must be between 0 and %d, got %d", MaxBits, this.MaxBits))
	}
	names := map[string]bool{}
	for i, model := range this.Models {
		if model.Name == "" {
			errs = errs.Add(errors.Errorf("models[%d]: name is required", i))
		} else if names[model.Name] {
			errs = errs.Add(errors.Errorf("models[%d]: duplicate model %q", i, model.Name))
		}
		names[model.Name] = true
		for j, col := range model.Columns {
			if col.Name == "" {
				errs = errs.Add(errors.Errorf("models[%d].columns[%d]: name is required", i, j))
			}
		}
	}
	return errs.Err()
}

// Column returns the column declaration, capped to maxBits flags when maxBits is positive.
func (this *ColumnConfig) Column(maxBits int) *Column {
	col := &Column{
		Name:        this.Name,
		DataType:    this.Type,
		Flags:       this.Flags,
		Prefix:      this.Prefix,
		RawAccessor: this.Accessor,
		Nullable:    this.Nullable,
		MaxBits:     this.MaxBits,
	}
	if col.MaxBits == 0 && maxBits > 0 && col.IsBitField() && maxBits < col.BitWidth() {
		col.MaxBits = maxBits
	}
	return col
}

// Apply declares the configured models on storage and returns them in config order. Ordinary
// columns of a model are declared before its bit fields. Declaration errors of all models are
// collected.
func (this *Config) Apply(storage *Storage) (models []*Model, err error) {
	var errs Errors
	for _, cfg := range this.Models {
		model := storage.Named(cfg.Name)
		if cfg.Table != "" {
			model.Table = cfg.Table
		}
		model.Reserve(cfg.Reserved...)

		// ordinary columns first, so flag accessors never take a column name
		var bitFields []*Column
		for _, colCfg := range cfg.Columns {
			col := colCfg.Column(this.MaxBits)
			if col.IsBitField() {
				bitFields = append(bitFields, col)
			} else if _, err := model.Declare(col); err != nil {
				errs = errs.Add(err)
			}
		}
		for _, col := range bitFields {
			if _, err := model.Declare(col); err != nil {
				errs = errs.Add(err)
			}
		}
		models = append(models, model)
	}
	return models, errs.Err()
}
