package wlgen

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bnema/wlclient/proto"
)

// Descriptors validates p and converts it to runtime descriptors.
func (p *Protocol) Descriptors() (*proto.Protocol, error) {
	out := &proto.Protocol{Name: p.Name}
	seen := make(map[string]bool)
	for _, x := range p.Interfaces {
		if x.Name == "" {
			return nil, errors.New("interface without a name")
		}
		if seen[x.Name] {
			return nil, errors.Errorf("interface %s declared twice", x.Name)
		}
		seen[x.Name] = true
		iface, err := x.descriptor()
		if err != nil {
			return nil, errors.Wrap(err, x.Name)
		}
		out.Interfaces = append(out.Interfaces, iface)
	}
	for _, iface := range out.Interfaces {
		if err := checkEnumRefs(out, iface); err != nil {
			return nil, errors.Wrap(err, iface.Name)
		}
	}
	return out, nil
}

func (x *Interface) descriptor() (*proto.Interface, error) {
	version, err := parseVersion(x.Version)
	if err != nil {
		return nil, err
	}
	iface := &proto.Interface{Name: x.Name, Version: version}
	for _, m := range x.Requests {
		msg, err := m.descriptor(version)
		if err != nil {
			return nil, errors.Wrapf(err, "request %s", m.Name)
		}
		iface.Requests = append(iface.Requests, msg)
	}
	for _, m := range x.Events {
		msg, err := m.descriptor(version)
		if err != nil {
			return nil, errors.Wrapf(err, "event %s", m.Name)
		}
		iface.Events = append(iface.Events, msg)
	}
	for _, e := range x.Enums {
		enum, err := e.descriptor()
		if err != nil {
			return nil, errors.Wrapf(err, "enum %s", e.Name)
		}
		iface.Enums = append(iface.Enums, enum)
	}
	return iface, nil
}

func (m *Message) descriptor(ifaceVersion uint32) (proto.Message, error) {
	since, err := parseVersion(m.Since)
	if err != nil {
		return proto.Message{}, err
	}
	if since > ifaceVersion {
		return proto.Message{}, errors.Errorf("since %d exceeds interface version %d", since, ifaceVersion)
	}
	msg := proto.Message{Name: m.Name, Since: since}
	switch m.Type {
	case "":
	case "destructor":
		msg.Destructor = true
	default:
		return msg, errors.Errorf("unknown message type %q", m.Type)
	}
	newIDs := 0
	for _, a := range m.Args {
		arg, err := a.descriptor()
		if err != nil {
			return msg, errors.Wrapf(err, "argument %s", a.Name)
		}
		if arg.Type == proto.NewID {
			newIDs++
		}
		msg.Args = append(msg.Args, arg)
	}
	if newIDs > 1 {
		return msg, errors.New("more than one new_id argument")
	}
	return msg, nil
}

func (a *Arg) descriptor() (proto.Arg, error) {
	t, ok := proto.ParseArgType(a.Type)
	if !ok {
		return proto.Arg{}, errors.Errorf("unknown type %q", a.Type)
	}
	arg := proto.Arg{Name: a.Name, Type: t, Interface: a.Interface, Enum: a.Enum, Summary: a.Summary}
	switch a.AllowNull {
	case "", "false":
	case "true":
		if t != proto.Object && t != proto.String {
			return arg, errors.Errorf("%s cannot be nullable", t)
		}
		arg.Nullable = true
	default:
		return arg, errors.Errorf("bad allow-null value %q", a.AllowNull)
	}
	if a.Interface != "" && t != proto.Object && t != proto.NewID {
		return arg, errors.Errorf("%s cannot name an interface", t)
	}
	if a.Enum != "" && t != proto.Int && t != proto.Uint {
		return arg, errors.Errorf("%s cannot reference an enum", t)
	}
	return arg, nil
}

func (e *Enum) descriptor() (proto.Enum, error) {
	since, err := parseVersion(e.Since)
	if err != nil {
		return proto.Enum{}, err
	}
	enum := proto.Enum{Name: e.Name, Since: since, Bitfield: e.Bitfield == "true"}
	for _, x := range e.Entries {
		v, err := strconv.ParseUint(x.Value, 0, 32)
		if err != nil {
			return enum, errors.Wrapf(err, "entry %s", x.Name)
		}
		since, err := parseVersion(x.Since)
		if err != nil {
			return enum, errors.Wrapf(err, "entry %s", x.Name)
		}
		enum.Entries = append(enum.Entries, proto.Entry{Name: x.Name, Value: uint32(v), Since: since, Summary: x.Summary})
	}
	return enum, nil
}

func parseVersion(s string) (uint32, error) {
	if s == "" {
		return 1, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, errors.Errorf("bad version %q", s)
	}
	return uint32(v), nil
}

// checkEnumRefs makes sure enum attributes that point into this protocol
// name an enum that exists. References to other protocols are left alone.
func checkEnumRefs(p *proto.Protocol, iface *proto.Interface) error {
	check := func(msgs []proto.Message) error {
		for _, m := range msgs {
			for _, a := range m.Args {
				if a.Enum == "" {
					continue
				}
				owner, name := splitEnumRef(iface.Name, a.Enum)
				target := findInterface(p, owner)
				if target == nil {
					continue
				}
				if _, ok := target.Enum(name); !ok {
					return errors.Errorf("%s.%s: unknown enum %s", m.Name, a.Name, a.Enum)
				}
			}
		}
		return nil
	}
	if err := check(iface.Requests); err != nil {
		return err
	}
	return check(iface.Events)
}

func splitEnumRef(iface, ref string) (string, string) {
	if owner, name, ok := strings.Cut(ref, "."); ok {
		return owner, name
	}
	return iface, ref
}

func findInterface(p *proto.Protocol, name string) *proto.Interface {
	for _, iface := range p.Interfaces {
		if iface.Name == name {
			return iface
		}
	}
	return nil
}
