package latex

import (
	"slices"
	"strings"
)

// Package is a \usepackage declaration.
type Package struct {
	Name    string
	Options []string
}

// String renders the declaration.
func (p Package) String() string {
	return Command("usepackage", p.Options, p.Name)
}

// Document is a LaTeX document under construction. The zero value is not
// usable; create one with [NewDocument]. A Document is not safe for
// concurrent use.
type Document struct {
	class        string
	classOptions []string
	packages     []Package
	preamble     []string
	body         strings.Builder
}

// NewDocument starts a document of the given class.
func NewDocument(class string, options ...string) *Document {
	return &Document{class: class, classOptions: options}
}

// UsePackage declares a package. Repeated declarations of the same package
// merge their options.
func (d *Document) UsePackage(name string, options ...string) {
	for i, p := range d.packages {
		if p.Name != name {
			continue
		}
		for _, o := range options {
			if !slices.Contains(p.Options, o) {
				d.packages[i].Options = append(d.packages[i].Options, o)
			}
		}
		return
	}
	d.packages = append(d.packages, Package{Name: name, Options: options})
}

// HasPackage reports whether name has been declared.
func (d *Document) HasPackage(name string) bool {
	return slices.ContainsFunc(d.packages, func(p Package) bool { return p.Name == name })
}

// Preamble appends a raw line after the package declarations.
func (d *Document) Preamble(line string) { d.preamble = append(d.preamble, line) }

// Write appends raw text to the body.
func (d *Document) Write(s string) { d.body.WriteString(s) }

// Writeln appends raw text and a newline to the body.
func (d *Document) Writeln(s string) {
	d.body.WriteString(s)
	d.body.WriteByte('\n')
}

// Body returns the body written so far.
func (d *Document) Body() string { return d.body.String() }

// String renders the complete document.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(Command("documentclass", d.classOptions, d.class))
	b.WriteByte('\n')
	for _, p := range d.packages {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	for _, line := range d.preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(`\begin{document}`)
	b.WriteByte('\n')
	b.WriteString(d.body.String())
	b.WriteString(`\end{document}`)
	b.WriteByte('\n')
	return b.String()
}

// Bytes renders the complete document.
func (d *Document) Bytes() []byte { return []byte(d.String()) }
