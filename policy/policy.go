// Package policy loads the interpreter's capability configuration from a
// YAML document: which member names each scope allows, which classes are
// constructible, and any extra deny patterns. Documents are validated
// against an embedded JSON Schema before use so a malformed policy fails
// loudly at startup instead of silently widening or narrowing access.
package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/cordon-lang/cordon/cmderrors"
	"github.com/cordon-lang/cordon/guard"
	"github.com/cordon-lang/cordon/interp"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "allow": {
      "type": "object",
      "propertyNames": {"pattern": "^\\w+$"},
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string", "pattern": "^\\w+$"}
      }
    },
    "constructors": {
      "type": "array",
      "items": {"type": "string", "pattern": "^\\w+$"}
    },
    "deny": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "pattern"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "pattern": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("policy.schema.json", schemaJSON)

// DenyRule is an extra deny pattern contributed by the policy document.
type DenyRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Policy is a validated capability configuration.
type Policy struct {
	Allow        map[string][]string `yaml:"allow"`
	Constructors []string            `yaml:"constructors"`
	Deny         []DenyRule          `yaml:"deny"`

	compiled []guard.Pattern
}

// Load reads and validates a policy document from path.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmderrors.Wrap(cmderrors.CodePolicyRead, "cannot read policy file", err)
	}
	return Parse(data)
}

// Parse validates and decodes a policy document.
func Parse(data []byte) (*Policy, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cmderrors.Wrap(cmderrors.CodePolicyDecode, "policy is not valid YAML", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, cmderrors.Wrap(cmderrors.CodePolicyInvalid, "policy document rejected by schema", err)
	}

	p := &Policy{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, cmderrors.Wrap(cmderrors.CodePolicyDecode, "cannot decode policy", err)
	}

	for _, rule := range p.Deny {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, cmderrors.Wrap(cmderrors.CodePolicyInvalid,
				fmt.Sprintf("deny rule %q has an invalid pattern", rule.Name), err)
		}
		p.compiled = append(p.compiled, guard.Pattern{Name: rule.Name, Re: re})
	}
	return p, nil
}

// Options expands the policy into interpreter construction options.
func (p *Policy) Options() []interp.Option {
	var opts []interp.Option
	for scope, names := range p.Allow {
		opts = append(opts, interp.WithAllow(scope, names...))
	}
	for _, pattern := range p.compiled {
		opts = append(opts, interp.WithDenyPattern(pattern.Name, pattern.Re))
	}
	return opts
}

// PermitsConstructor reports whether the policy names class as
// constructible. An absent constructors section permits nothing.
func (p *Policy) PermitsConstructor(class string) bool {
	for _, name := range p.Constructors {
		if name == class {
			return true
		}
	}
	return false
}

// String renders a short summary for logging.
func (p *Policy) String() string {
	scopes := make([]string, 0, len(p.Allow))
	for scope := range p.Allow {
		scopes = append(scopes, scope)
	}
	return fmt.Sprintf("policy{scopes: %s, constructors: %s, deny: %d}",
		strings.Join(scopes, ","), strings.Join(p.Constructors, ","), len(p.Deny))
}
