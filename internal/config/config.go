// Package config merges command-line flags, XSD2FHIR_* environment variables
// and an optional config file into the settings of a conversion run.
//
// Precedence, highest first: flags, environment, config file, defaults.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/reoring/xsd2fhir"
	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
)

// EnvPrefix prefixes every environment variable (XSD2FHIR_MODEL_NAME, ...).
const EnvPrefix = "XSD2FHIR"

// Keys shared by flags, environment variables and config files.
const (
	KeySource                         = "source"
	KeyDest                           = "dest"
	KeyModelName                      = "model-name"
	KeyFHIRPath                       = "fhir-path"
	KeyFormat                         = "format"
	KeyConfig                         = "config"
	KeyGenerateSimpleTypeExtensions   = "generate-simple-type-extensions"
	KeyGenerateSimpleTypeRestrictions = "generate-simple-type-restrictions"
	KeyGenerateEmptyComplexTypes      = "generate-empty-complex-types"
	KeyPublisher                      = "publisher"
	KeyPublisherContact               = "publisher-contact"
	KeyPublisherURL                   = "publisher-url"
	KeyFHIRVersion                    = "fhir-version"
	KeyNamespaceAlias                 = "namespace-alias"
	KeyNamespaceAliases               = "namespace-aliases"
	KeyLogJSON                        = "log-json"
	KeyVerbose                        = "verbose"
	KeyLanguage                       = "lang"
)

// Usage lists the required and optional inputs of a conversion.
const Usage = `XSD to FHIR StructureDefinition Converter
This tool takes 3 parameters:
--source: XSD representation of a model (required)
--dest: directory that will contain the resulting structure definitions, one for each type defined in the source XSD (required)
--model-name: name of the model being imported
--fhir-path: directory of FHIR base-type StructureDefinitions (embedded library when omitted)`

// Config is the merged configuration of one run.
type Config struct {
	Source    string `mapstructure:"source"`
	Dest      string `mapstructure:"dest"`
	ModelName string `mapstructure:"model-name"`
	FHIRPath  string `mapstructure:"fhir-path"`
	Format    string `mapstructure:"format"`

	GenerateSimpleTypeExtensions   bool `mapstructure:"generate-simple-type-extensions"`
	GenerateSimpleTypeRestrictions bool `mapstructure:"generate-simple-type-restrictions"`
	GenerateEmptyComplexTypes      bool `mapstructure:"generate-empty-complex-types"`

	Publisher        string `mapstructure:"publisher"`
	PublisherContact string `mapstructure:"publisher-contact"`
	PublisherURL     string `mapstructure:"publisher-url"`
	FHIRVersion      string `mapstructure:"fhir-version"`

	// NamespaceAlias holds "namespace=Alias" pairs from flags or env.
	NamespaceAlias []string `mapstructure:"namespace-alias"`
	// NamespaceAliases is the config-file form. It is a list rather than a
	// map because viper splits map keys on '.', which namespace URIs contain.
	NamespaceAliases []NamespaceAlias `mapstructure:"namespace-aliases"`

	LogJSON  bool   `mapstructure:"log-json"`
	Verbose  bool   `mapstructure:"verbose"`
	Language string `mapstructure:"lang"`
}

// NamespaceAlias maps one namespace URI to its alias.
type NamespaceAlias struct {
	Namespace string `mapstructure:"namespace"`
	Alias     string `mapstructure:"alias"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the default of every scalar key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySource, "")
	v.SetDefault(KeyDest, "")
	v.SetDefault(KeyModelName, "")
	v.SetDefault(KeyFHIRPath, "")
	v.SetDefault(KeyFormat, string(fhir.FormatJSON))
	v.SetDefault(KeyGenerateSimpleTypeExtensions, false)
	v.SetDefault(KeyGenerateSimpleTypeRestrictions, false)
	v.SetDefault(KeyGenerateEmptyComplexTypes, false)
	v.SetDefault(KeyPublisher, xsd2fhir.DefaultPublisher)
	v.SetDefault(KeyPublisherContact, xsd2fhir.DefaultPublisherContact)
	v.SetDefault(KeyPublisherURL, xsd2fhir.DefaultPublisherURL)
	v.SetDefault(KeyFHIRVersion, "")
	v.SetDefault(KeyNamespaceAlias, []string{})
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLanguage, "en")
}

// DefineFlags adds the conversion flags to fs.
func DefineFlags(fs *pflag.FlagSet) {
	fs.String(KeySource, "", "XSD document to convert (path or URL)")
	fs.String(KeyDest, "", "output directory, one document per definition")
	fs.String(KeyModelName, "", "alias of the target namespace and of unmapped namespaces")
	fs.String(KeyFHIRPath, "", "directory of base-type StructureDefinitions (default: embedded library)")
	fs.String(KeyFormat, string(fhir.FormatJSON), "output format: json or yaml")
	fs.String(KeyConfig, "", "config file (yaml, toml or json)")
	fs.Bool(KeyGenerateSimpleTypeExtensions, false, "keep restricted simple types (same effect as --generate-simple-type-restrictions)")
	fs.Bool(KeyGenerateSimpleTypeRestrictions, false, "keep restricted simple types instead of collapsing them to their base")
	fs.Bool(KeyGenerateEmptyComplexTypes, false, "keep derived complex types that add no members")
	fs.String(KeyPublisher, xsd2fhir.DefaultPublisher, "publisher stamped into every definition")
	fs.String(KeyPublisherContact, xsd2fhir.DefaultPublisherContact, "publisher contact name")
	fs.String(KeyPublisherURL, xsd2fhir.DefaultPublisherURL, "publisher contact url")
	fs.String(KeyFHIRVersion, "", "FHIR version (default: version of the base-type library)")
	fs.StringSlice(KeyNamespaceAlias, nil, "namespace alias as namespace=Alias (repeatable)")
	fs.Bool(KeyLogJSON, false, "log as JSON")
	fs.BoolP(KeyVerbose, "v", false, "debug logging")
	fs.String(KeyLanguage, "en", "message language: en or ja")
}

// Load binds fs to v, reads the config file named by the config key if any,
// and returns the merged configuration.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.Error{Code: errors.CodeInvalidOption, Detail: "config file " + file, Cause: err}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, &errors.Error{Code: errors.CodeInvalidOption, Detail: "config", Cause: err}
	}
	return &c, nil
}

// Validate reports the first missing required argument. The error carries the
// usage text as a hint.
func (c *Config) Validate() error {
	var missing string
	switch {
	case c.Source == "":
		missing = KeySource
	case c.Dest == "":
		missing = KeyDest
	}
	if missing == "" {
		return nil
	}
	return errors.WithHint(&errors.Error{Code: errors.CodeMissingRequiredArgument, Detail: "--" + missing}, Usage)
}

// Aliases merges the config-file aliases with "namespace=Alias" pairs, which
// win on conflict.
func (c *Config) Aliases() (map[string]string, error) {
	out := make(map[string]string, len(c.NamespaceAliases)+len(c.NamespaceAlias))
	for _, a := range c.NamespaceAliases {
		if a.Namespace == "" {
			return nil, &errors.Error{Code: errors.CodeInvalidOption, Detail: "namespace alias without namespace"}
		}
		out[a.Namespace] = a.Alias
	}
	for _, pair := range c.NamespaceAlias {
		i := strings.LastIndexByte(pair, '=')
		if i <= 0 {
			return nil, &errors.Error{Code: errors.CodeInvalidOption, Detail: "namespace alias " + pair}
		}
		out[pair[:i]] = pair[i+1:]
	}
	return out, nil
}

// Options converts the configuration into conversion options.
func (c *Config) Options() (xsd2fhir.Options, error) {
	aliases, err := c.Aliases()
	if err != nil {
		return xsd2fhir.Options{}, err
	}
	opts := xsd2fhir.DefaultOptions()
	opts.GenerateSimpleTypeExtensions = c.GenerateSimpleTypeExtensions
	opts.GenerateSimpleTypeRestrictions = c.GenerateSimpleTypeRestrictions
	opts.GenerateEmptyComplexTypes = c.GenerateEmptyComplexTypes
	opts.Publisher = c.Publisher
	opts.PublisherContact = c.PublisherContact
	opts.PublisherURL = c.PublisherURL
	opts.ModelName = c.ModelName
	opts.NamespaceAliases = aliases
	opts.FHIRVersion = c.FHIRVersion
	return opts, opts.Validate()
}

// Job returns the file-level inputs and output of the run.
func (c *Config) Job() (xsd2fhir.Job, error) {
	format, err := fhir.ParseFormat(c.Format)
	if err != nil {
		return xsd2fhir.Job{}, err
	}
	return xsd2fhir.Job{SourceURL: c.Source, DestURL: c.Dest, LibraryURL: c.FHIRPath, Format: format}, nil
}
