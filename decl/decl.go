// Package decl reads declaration files for the miren type checker. A file
// lists nominal type declarations plus optional subtype queries, in YAML,
// with type expressions in the Name[Arg, ...] surface syntax. It is a host
// layer: everything here turns external records into types values before
// any checking happens.
package decl

import (
	"io"
	"os"

	"github.com/miren-lang/miren/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type File struct {
	Types   []TypeDecl `yaml:"types"`
	Queries []Query    `yaml:"queries,omitempty"`
}

type TypeDecl struct {
	Name      string   `yaml:"name"`
	Supertype string   `yaml:"supertype,omitempty"`
	Params    []Param  `yaml:"params,omitempty"`
	Members   []Member `yaml:"members,omitempty"`
}

type Param struct {
	Name     string `yaml:"name"`
	Variance string `yaml:"variance,omitempty"`
	Bound    string `yaml:"bound,omitempty"`
}

type Member struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Result string   `yaml:"result"`
}

type Query struct {
	Sub    string `yaml:"sub"`
	Super  string `yaml:"super"`
	Expect *bool  `yaml:"expect,omitempty"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening declaration file %s", path)
	}
	defer func() { _ = f.Close() }()
	file, err := Decode(f)
	return file, errors.Wrapf(err, "reading declaration file %s", path)
}

func Decode(r io.Reader) (*File, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding declarations")
	}
	return &file, nil
}

// Declarations converts the file's type declarations, parsing every type
// expression they mention.
func (f *File) Declarations() ([]types.Declaration, error) {
	decls := make([]types.Declaration, 0, len(f.Types))
	for _, td := range f.Types {
		d, err := td.declaration()
		if err != nil {
			return nil, errors.Wrapf(err, "in declaration of %s", td.Name)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (td TypeDecl) declaration() (types.Declaration, error) {
	d := types.Declaration{Name: td.Name}
	if td.Supertype != "" {
		super, err := ParseType(td.Supertype)
		if err != nil {
			return d, err
		}
		d.Supertype = super
	}
	for _, p := range td.Params {
		variance, err := parseVariance(p.Variance)
		if err != nil {
			return d, err
		}
		param := types.TypeParam{Name: p.Name, Variance: variance}
		if p.Bound != "" {
			bound, err := ParseType(p.Bound)
			if err != nil {
				return d, err
			}
			param.Bound = bound
		}
		d.Params = append(d.Params, param)
	}
	for _, m := range td.Members {
		member := types.Member{Name: m.Name}
		for _, param := range m.Params {
			t, err := ParseType(param)
			if err != nil {
				return d, errors.Wrapf(err, "in member %s", m.Name)
			}
			member.Params = append(member.Params, t)
		}
		result, err := ParseType(m.Result)
		if err != nil {
			return d, errors.Wrapf(err, "in member %s", m.Name)
		}
		member.Result = result
		d.Members = append(d.Members, member)
	}
	return d, nil
}

// Types parses the query's two type expressions.
func (q Query) Types() (sub, super types.Type, err error) {
	sub, err = ParseType(q.Sub)
	if err != nil {
		return nil, nil, err
	}
	super, err = ParseType(q.Super)
	if err != nil {
		return nil, nil, err
	}
	return sub, super, nil
}

func parseVariance(s string) (types.Variance, error) {
	switch s {
	case "covariant", "+", "out":
		return types.Covariant, nil
	case "contravariant", "-", "in":
		return types.Contravariant, nil
	case "", "invariant":
		return types.Invariant, nil
	default:
		return types.Invariant, errors.Errorf("unknown variance '%s'", s)
	}
}
