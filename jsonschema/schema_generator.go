//go:build generate

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	iyaml "github.com/invopop/yaml"

	"github.com/theopenlane/utils/envparse"

	"github.com/theopenlane/recon/config"
)

const (
	// tagName is the struct tag used for field naming in the schema
	tagName = "koanf"
	// skipper is the tag value that indicates a field should be skipped
	skipper = "-"
	// defaultTag is the struct tag used for default values
	defaultTag = "default"
	// varPrefix is the environment variable prefix
	varPrefix = "RECON"
	// modulePath is the import path prefix used to resolve Go comments
	modulePath = "github.com/theopenlane/recon/"
	// ownerReadWrite is the file permission for generated files
	ownerReadWrite = 0600
)

// commentPackages is the list of packages to parse for Go comments
var commentPackages = []string{
	"./config",
}

// output pairs a generated artifact with the function that renders it
type output struct {
	path   string
	render func(cfg *config.Config) ([]byte, error)
}

var outputs = []output{
	{path: "./jsonschema/recon.config.json", render: renderJSONSchema},
	{path: "./config/config.example.yaml", render: renderYAMLConfig},
	{path: "./config/.env.example", render: renderEnvFile},
}

// main writes the JSON schema, example YAML config and example env file for the default config
func main() {
	cfg := config.New()

	for _, o := range outputs {
		data, err := o.render(cfg)
		if err != nil {
			panic(fmt.Errorf("rendering %s: %w", o.path, err))
		}

		if err := os.WriteFile(o.path, data, ownerReadWrite); err != nil {
			panic(fmt.Errorf("writing %s: %w", o.path, err))
		}

		fmt.Printf("wrote %s\n", o.path)
	}
}

// renderJSONSchema reflects the config structure, using Go comments as descriptions
func renderJSONSchema(cfg *config.Config) ([]byte, error) {
	comments := &jsonschema.Reflector{}

	for _, pkg := range commentPackages {
		if err := comments.AddGoComments(modulePath, pkg); err != nil {
			return nil, fmt.Errorf("failed to add go comments for package %s: %w", pkg, err)
		}
	}

	r := jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               tagName,
		CommentMap:                 comments.CommentMap,
	}

	return json.MarshalIndent(r.Reflect(cfg), "", "  ")
}

// renderYAMLConfig renders the defaults as YAML keyed by the koanf tags
func renderYAMLConfig(cfg *config.Config) ([]byte, error) {
	return iyaml.Marshal(toYAMLValue(reflect.ValueOf(cfg)))
}

// toYAMLValue converts config values into plain maps, rendering durations as strings
func toYAMLValue(v reflect.Value) any {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Type() == reflect.TypeOf(time.Duration(0)) {
		return time.Duration(v.Int()).String()
	}

	if v.Kind() != reflect.Struct {
		return v.Interface()
	}

	out := make(map[string]any)
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)

		key := field.Tag.Get(tagName)
		if !field.IsExported() || key == "" || key == skipper {
			continue
		}

		out[key] = toYAMLValue(v.Field(i))
	}

	return out
}

// renderEnvFile lists every RECON_ variable with its default value
func renderEnvFile(cfg *config.Config) ([]byte, error) {
	cp := envparse.Config{
		FieldTagName: tagName,
		Skipper:      skipper,
	}

	vars, err := cp.GatherEnvInfo(varPrefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to gather environment info: %w", err)
	}

	var b strings.Builder

	for _, v := range vars {
		value := v.Tags.Get(defaultTag)

		if v.Type == reflect.TypeOf(time.Duration(0)) && value != "" {
			if d, parseErr := time.ParseDuration(value); parseErr == nil {
				value = d.String()
			}
		}

		fmt.Fprintf(&b, "%s=%q\n", v.Key, value)
	}

	return []byte(b.String()), nil
}
