package wlgen

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bnema/wlclient/proto"
)

type yamlArg struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Interface string `yaml:"interface,omitempty"`
	Nullable  bool   `yaml:"nullable,omitempty"`
	Enum      string `yaml:"enum,omitempty"`
}

type yamlMessage struct {
	Opcode     int       `yaml:"opcode"`
	Name       string    `yaml:"name"`
	Since      uint32    `yaml:"since"`
	Destructor bool      `yaml:"destructor,omitempty"`
	Signature  string    `yaml:"signature"`
	Args       []yamlArg `yaml:"args,omitempty"`
}

type yamlEnum struct {
	Name     string            `yaml:"name"`
	Bitfield bool              `yaml:"bitfield,omitempty"`
	Entries  map[string]uint32 `yaml:"entries"`
}

type yamlInterface struct {
	Name     string        `yaml:"name"`
	Version  uint32        `yaml:"version"`
	Requests []yamlMessage `yaml:"requests,omitempty"`
	Events   []yamlMessage `yaml:"events,omitempty"`
	Enums    []yamlEnum    `yaml:"enums,omitempty"`
}

type yamlProtocol struct {
	Protocol   string          `yaml:"protocol"`
	Interfaces []yamlInterface `yaml:"interfaces"`
}

// Dump writes the descriptors of p as YAML, for reviewing what the
// generator will emit.
func Dump(w io.Writer, p *proto.Protocol) error {
	out := yamlProtocol{Protocol: p.Name}
	for _, iface := range p.Interfaces {
		yi := yamlInterface{Name: iface.Name, Version: iface.Version}
		for op := range iface.Requests {
			yi.Requests = append(yi.Requests, yamlMsg(op, &iface.Requests[op]))
		}
		for op := range iface.Events {
			yi.Events = append(yi.Events, yamlMsg(op, &iface.Events[op]))
		}
		for _, e := range iface.Enums {
			ye := yamlEnum{Name: e.Name, Bitfield: e.Bitfield, Entries: make(map[string]uint32, len(e.Entries))}
			for _, x := range e.Entries {
				ye.Entries[x.Name] = x.Value
			}
			yi.Enums = append(yi.Enums, ye)
		}
		out.Interfaces = append(out.Interfaces, yi)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "unable to encode yaml")
	}
	return errors.Wrap(enc.Close(), "unable to encode yaml")
}

func yamlMsg(op int, m *proto.Message) yamlMessage {
	ym := yamlMessage{Opcode: op, Name: m.Name, Since: m.Since, Destructor: m.Destructor, Signature: m.Signature()}
	for _, a := range m.Args {
		ym.Args = append(ym.Args, yamlArg{
			Name:      a.Name,
			Type:      a.Type.String(),
			Interface: a.Interface,
			Nullable:  a.Nullable,
			Enum:      a.Enum,
		})
	}
	return ym
}
