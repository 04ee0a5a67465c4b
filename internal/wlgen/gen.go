package wlgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/serenize/snaker"

	"github.com/bnema/wlclient/proto"
)

// RuntimePath is the import path of the runtime the bindings target.
const RuntimePath = "github.com/bnema/wlclient"

// Options control code generation.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Runtime is set when the file is generated outside the runtime
	// package; runtime identifiers are then qualified.
	Runtime bool
	// Prefix is stripped from interface names before they become Go
	// identifiers.
	Prefix string
	// Source is recorded in the generated header.
	Source string
}

//go:embed bindings.tmpl
var bindingsTemplate string

var tmpl = template.Must(template.New("bindings").Parse(bindingsTemplate))

// Generate writes gofmt-formatted bindings for p to w.
func Generate(w io.Writer, p *Protocol, opts Options) error {
	src, err := Source(p, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return errors.Wrap(err, "unable to write bindings")
}

// Source returns the formatted bindings for p.
func Source(p *Protocol, opts Options) ([]byte, error) {
	desc, err := p.Descriptors()
	if err != nil {
		return nil, err
	}
	v := newView(desc, opts)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, errors.Wrap(err, "unable to execute template")
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), errors.Wrap(err, "generated code does not parse")
	}
	return out, nil
}

type fileView struct {
	Source     string
	Package    string
	Imports    []string
	Interfaces []*ifaceView
}

type ifaceView struct {
	Name       string
	GoName     string
	Var        string
	Version    uint32
	Recv       string
	RecvType   string
	Dispatcher string
	Q          string
	IsDisplay  bool
	Requests   []*msgView
	Events     []*msgView
	Since      []*msgView
	Enums      []*enumView
}

type msgView struct {
	Name       string
	GoName     string
	Iface      string
	IfaceGo    string
	Const      string
	SinceConst string
	Type       string
	Opcode     int
	Since      uint32
	Destructor bool
	Desc       string
	Fields     []*argView
	Args       []*argView
	Recv       string
	RecvType   string
	Q          string
	Params     string
	Results    string
	Literal    string
	// Return is "" for requests creating nothing, "proxy" for untyped
	// results and the wrapper type otherwise.
	Return string
}

type argView struct {
	Field  string
	Type   string
	Encode string
	Decode string
}

type enumView struct {
	Name     string
	GoName   string
	Iface    string
	Var      string
	Bitfield bool
	Desc     string
	Entries  []entryView
}

type entryView struct {
	Const string
	Type  string
	Value string
}

type viewBuilder struct {
	p    *proto.Protocol
	opts Options
	q    string
}

func newView(p *proto.Protocol, opts Options) *fileView {
	b := &viewBuilder{p: p, opts: opts}
	v := &fileView{Source: opts.Source, Package: opts.Package}
	if opts.Runtime {
		b.q = "wlclient."
		v.Imports = append(v.Imports, RuntimePath)
	}
	v.Imports = append(v.Imports, RuntimePath+"/proto", RuntimePath+"/wire")
	for _, iface := range p.Interfaces {
		v.Interfaces = append(v.Interfaces, b.iface(iface))
	}
	return v
}

func (b *viewBuilder) iface(iface *proto.Interface) *ifaceView {
	gn := goName(iface.Name, b.opts.Prefix)
	v := &ifaceView{
		Name:       iface.Name,
		GoName:     gn,
		Var:        gn + "Interface",
		Version:    iface.Version,
		Recv:       receiverName(gn),
		RecvType:   gn,
		Dispatcher: lowerFirst(gn) + "Dispatcher",
		Q:          b.q,
		IsDisplay:  iface.Name == "wl_display" && !b.opts.Runtime,
	}
	for op := range iface.Requests {
		m := b.message(v, iface, &iface.Requests[op], op, "Req", "Request")
		v.Requests = append(v.Requests, m)
		v.Since = append(v.Since, m)
	}
	for op := range iface.Events {
		m := b.message(v, iface, &iface.Events[op], op, "Evt", "Event")
		v.Events = append(v.Events, m)
		v.Since = append(v.Since, m)
	}
	for i := range iface.Enums {
		v.Enums = append(v.Enums, b.enum(v, &iface.Enums[i]))
	}
	return v
}

func (b *viewBuilder) message(iv *ifaceView, iface *proto.Interface, msg *proto.Message, op int, tag, kind string) *msgView {
	mn := snaker.SnakeToCamel(msg.Name)
	m := &msgView{
		Name:       msg.Name,
		GoName:     mn,
		Iface:      iface.Name,
		IfaceGo:    iv.GoName,
		Const:      iv.GoName + tag + mn,
		SinceConst: iv.GoName + tag + mn + "Since",
		Type:       iv.GoName + mn + kind,
		Opcode:     op,
		Since:      msg.Since,
		Destructor: msg.Destructor,
		Desc:       messageLiteral(msg),
		Recv:       iv.Recv,
		RecvType:   iv.RecvType,
		Q:          b.q,
		Results:    "error",
	}
	var params, lits []string
	for i := range msg.Args {
		a := &msg.Args[i]
		av := b.arg(iface, a, kind == "Event")
		m.Args = append(m.Args, av)
		if av.Type == "" {
			// typed new_id in a request: the runtime fills in the id
			m.Return = b.wrapperName(a.Interface)
			if m.Return == "" {
				m.Return = "proxy"
				m.Results = "(*" + b.q + "Proxy, error)"
			} else {
				m.Results = "(*" + m.Return + ", error)"
			}
			continue
		}
		m.Fields = append(m.Fields, av)
		if kind == "Event" {
			continue
		}
		if a.Dynamic() {
			params = append(params, "iface *proto.Interface", "version uint32")
			lits = append(lits, av.Field+": wire.NewID{Interface: iface.Name, Version: version}")
			m.Return = "proxy"
			m.Results = "(*" + b.q + "Proxy, error)"
			continue
		}
		pn := paramName(a.Name)
		if pn == iv.Recv {
			pn += "_"
		}
		params = append(params, pn+" "+av.Type)
		lits = append(lits, av.Field+": "+pn)
	}
	m.Params = strings.Join(params, ", ")
	m.Literal = m.Type + "{" + strings.Join(lits, ", ") + "}"
	return m
}

// wrapperName returns the Go type generated for the named interface, or ""
// when the interface is not part of this protocol.
func (b *viewBuilder) wrapperName(name string) string {
	if name == "" || findInterface(b.p, name) == nil {
		return ""
	}
	return goName(name, b.opts.Prefix)
}

func (b *viewBuilder) enumType(iface *proto.Interface, ref string) string {
	owner, name := splitEnumRef(iface.Name, ref)
	target := findInterface(b.p, owner)
	if target == nil {
		return ""
	}
	if _, ok := target.Enum(name); !ok {
		return ""
	}
	return goName(owner, b.opts.Prefix) + snaker.SnakeToCamel(name)
}

func (b *viewBuilder) arg(iface *proto.Interface, a *proto.Arg, event bool) *argView {
	f := snaker.SnakeToCamel(a.Name)
	av := &argView{Field: f}
	r := "r." + f
	switch a.Type {
	case proto.Int, proto.Uint:
		base, enc, dec := "int32", "wire.Int", "ev.Int32()"
		if a.Type == proto.Uint {
			base, enc, dec = "uint32", "wire.Uint", "ev.Uint32()"
		}
		av.Type, av.Encode, av.Decode = base, enc+"("+r+")", dec
		if et := b.enumType(iface, a.Enum); et != "" {
			av.Type = et
			av.Encode = enc + "(" + base + "(" + r + "))"
			av.Decode = et + "(" + dec + ")"
		}
	case proto.Fixed:
		av.Type, av.Encode, av.Decode = "wire.Fixed", "wire.FixedArg("+r+")", "ev.Fixed()"
	case proto.String:
		av.Type, av.Encode, av.Decode = "string", "wire.String("+r+")", "ev.Str()"
		if a.Nullable {
			av.Type, av.Encode, av.Decode = "*string", "wire.OptString("+r+")", "ev.OptStr()"
		}
	case proto.Object, proto.NewID:
		if a.Type == proto.NewID && !event {
			if a.Dynamic() {
				av.Type, av.Encode = "wire.NewID", "wire.DynamicNewID("+r+")"
				return av
			}
			av.Type, av.Encode = "", "wire.NewIDArg(0)"
			return av
		}
		av.Type, av.Encode, av.Decode = "*"+b.q+"Proxy", "wire.Object("+r+".ID())", "ev.Object()"
		if w := b.wrapperName(a.Interface); w != "" {
			av.Type = "*" + w
			av.Decode = b.q + "Wrap[" + w + "](ev.Object())"
		}
	case proto.Array:
		av.Type, av.Encode, av.Decode = "[]byte", "wire.Array("+r+")", "ev.Array()"
	case proto.FD:
		av.Type, av.Encode, av.Decode = "int", "wire.FD("+r+")", "ev.FD()"
	}
	return av
}

func (b *viewBuilder) enum(iv *ifaceView, e *proto.Enum) *enumView {
	gn := iv.GoName + snaker.SnakeToCamel(e.Name)
	ev := &enumView{
		Name:     e.Name,
		GoName:   gn,
		Iface:    iv.Name,
		Var:      iv.Var,
		Bitfield: e.Bitfield,
		Desc:     enumLiteral(e),
	}
	for _, x := range e.Entries {
		ev.Entries = append(ev.Entries, entryView{
			Const: gn + snaker.SnakeToCamel(x.Name),
			Type:  gn,
			Value: formatValue(x.Value),
		})
	}
	return ev
}

func formatValue(v uint32) string {
	if v < 0x10000 {
		return strconv.FormatUint(uint64(v), 10)
	}
	return fmt.Sprintf("0x%08x", v)
}

func messageLiteral(m *proto.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{Name: %q, Since: %d", m.Name, m.Since)
	if m.Destructor {
		b.WriteString(", Destructor: true")
	}
	if len(m.Args) > 0 {
		b.WriteString(", Args: []proto.Arg{\n")
		for _, a := range m.Args {
			fmt.Fprintf(&b, "\t\t\t%s,\n", argLiteral(&a))
		}
		b.WriteString("\t\t}")
	}
	b.WriteString("}")
	return b.String()
}

var argTypeIdents = map[proto.ArgType]string{
	proto.Int:    "proto.Int",
	proto.Uint:   "proto.Uint",
	proto.Fixed:  "proto.Fixed",
	proto.String: "proto.String",
	proto.Object: "proto.Object",
	proto.NewID:  "proto.NewID",
	proto.Array:  "proto.Array",
	proto.FD:     "proto.FD",
}

func argLiteral(a *proto.Arg) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{Name: %q, Type: %s", a.Name, argTypeIdents[a.Type])
	if a.Interface != "" {
		fmt.Fprintf(&b, ", Interface: %q", a.Interface)
	}
	if a.Nullable {
		b.WriteString(", Nullable: true")
	}
	if a.Enum != "" {
		fmt.Fprintf(&b, ", Enum: %q", a.Enum)
	}
	b.WriteString("}")
	return b.String()
}

func enumLiteral(e *proto.Enum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{Name: %q", e.Name)
	if e.Since > 1 {
		fmt.Fprintf(&b, ", Since: %d", e.Since)
	}
	if e.Bitfield {
		b.WriteString(", Bitfield: true")
	}
	b.WriteString(", Entries: []proto.Entry{\n")
	for _, x := range e.Entries {
		fmt.Fprintf(&b, "\t\t\t{Name: %q, Value: %s", x.Name, formatValue(x.Value))
		if x.Since > 1 {
			fmt.Fprintf(&b, ", Since: %d", x.Since)
		}
		b.WriteString("},\n")
	}
	b.WriteString("\t\t}}")
	return b.String()
}
