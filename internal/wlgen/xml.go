// Package wlgen reads Wayland protocol XML and generates Go bindings for
// the wlclient runtime.
package wlgen

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"
)

type Description struct {
	Summary string `xml:"summary,attr"`
	Text    string `xml:",chardata"`
}

type Arg struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	Summary   string `xml:"summary,attr"`
	Interface string `xml:"interface,attr"`
	AllowNull string `xml:"allow-null,attr"`
	Enum      string `xml:"enum,attr"`
}

type Message struct {
	Name        string       `xml:"name,attr"`
	Type        string       `xml:"type,attr"`
	Since       string       `xml:"since,attr"`
	Description *Description `xml:"description"`
	Args        []*Arg       `xml:"arg"`
}

type Entry struct {
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	Summary string `xml:"summary,attr"`
	Since   string `xml:"since,attr"`
}

type Enum struct {
	Name        string       `xml:"name,attr"`
	Since       string       `xml:"since,attr"`
	Bitfield    string       `xml:"bitfield,attr"`
	Description *Description `xml:"description"`
	Entries     []*Entry     `xml:"entry"`
}

type Interface struct {
	Name        string       `xml:"name,attr"`
	Version     string       `xml:"version,attr"`
	Description *Description `xml:"description"`
	Requests    []*Message   `xml:"request"`
	Events      []*Message   `xml:"event"`
	Enums       []*Enum      `xml:"enum"`
}

type Protocol struct {
	XMLName     xml.Name     `xml:"protocol"`
	Name        string       `xml:"name,attr"`
	Copyright   string       `xml:"copyright"`
	Description *Description `xml:"description"`
	Interfaces  []*Interface `xml:"interface"`
}

// Parse decodes a protocol document.
func Parse(r io.Reader) (*Protocol, error) {
	p := &Protocol{}
	if err := xml.NewDecoder(r).Decode(p); err != nil {
		return nil, errors.Wrap(err, "unable to parse protocol xml")
	}
	if p.Name == "" {
		return nil, errors.New("protocol element has no name")
	}
	return p, nil
}

func ParseFile(path string) (*Protocol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open protocol")
	}
	defer f.Close()
	p, err := Parse(f)
	return p, errors.Wrap(err, path)
}
