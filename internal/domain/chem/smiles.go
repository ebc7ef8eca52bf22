package chem

import (
	"fmt"
	"strings"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// ParseSMILES parses a SMILES string into a molecular graph.
//
// Supported syntax: the organic subset (B, C, N, O, P, S, F, Cl, Br, I) and
// aromatic lowercase forms, bracket atoms with isotope / chirality / explicit
// hydrogen count / charge, bond symbols (- = # : / \), branches, two-digit
// ring closures (%nn), and dot-separated fragments.  Directional bonds are
// recorded as single bonds; cis/trans geometry is not modelled.
func ParseSMILES(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New(errors.CodeMoleculeInvalidSMILES, "SMILES string cannot be empty")
	}

	p := &smilesParser{input: s}
	if err := p.run(); err != nil {
		return nil, err
	}

	mol, err := NewMolecule(p.atoms, p.bonds)
	if err != nil {
		return nil, err
	}
	mol.SMILES = s
	mol.fillImplicitHydrogens(p.explicitH)
	return mol, nil
}

// MustParseSMILES is a test helper that panics on parse failure.
func MustParseSMILES(s string) *Molecule {
	m, err := ParseSMILES(s)
	if err != nil {
		panic(err)
	}
	return m
}

type pendingRing struct {
	atom  int
	order int
}

type smilesParser struct {
	input     string
	pos       int
	atoms     []Atom
	bonds     []Bond
	explicitH []bool

	prev      int   // index of the previous atom, -1 at fragment start
	stack     []int // branch stack
	nextOrder int   // bond order pending before the next atom, 0 = default
	rings     map[int]pendingRing
}

func (p *smilesParser) errorf(format string, args ...interface{}) error {
	return errors.New(errors.CodeMoleculeInvalidSMILES,
		fmt.Sprintf(format, args...)).WithDetail("smiles=" + p.input)
}

func (p *smilesParser) run() error {
	p.prev = -1
	p.rings = make(map[int]pendingRing)

	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch opened before any atom at position %d", p.pos)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("unmatched ) at position %d", p.pos)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '-' || c == '/' || c == '\\':
			p.nextOrder = 1
			p.pos++
		case c == '=':
			p.nextOrder = 2
			p.pos++
		case c == '#':
			p.nextOrder = 3
			p.pos++
		case c == ':':
			p.nextOrder = -1 // aromatic
			p.pos++
		case c == '.':
			p.prev = -1
			p.nextOrder = 0
			p.pos++
		case c >= '0' && c <= '9':
			if err := p.ringClosure(int(c - '0')); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.input) {
				return p.errorf("truncated %% ring closure at position %d", p.pos)
			}
			d1, d2 := p.input[p.pos+1], p.input[p.pos+2]
			if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
				return p.errorf("invalid %% ring closure at position %d", p.pos)
			}
			if err := p.ringClosure(int(d1-'0')*10 + int(d2-'0')); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	if len(p.stack) != 0 {
		return p.errorf("unclosed branch")
	}
	if len(p.rings) != 0 {
		return p.errorf("unclosed ring bond")
	}
	if len(p.atoms) == 0 {
		return p.errorf("no atoms found")
	}
	return nil
}

// addAtom appends an atom and bonds it to the previous one.
func (p *smilesParser) addAtom(a Atom, hExplicit bool) {
	idx := len(p.atoms)
	p.atoms = append(p.atoms, a)
	p.explicitH = append(p.explicitH, hExplicit)
	if p.prev >= 0 {
		p.bonds = append(p.bonds, p.makeBond(p.prev, idx))
	}
	p.prev = idx
	p.nextOrder = 0
}

func (p *smilesParser) makeBond(from, to int) Bond {
	order := p.nextOrder
	aromatic := false
	switch {
	case order == -1:
		aromatic = true
		order = 1
	case order == 0:
		if p.atoms[from].Aromatic && p.atoms[to].Aromatic {
			aromatic = true
		}
		order = 1
	}
	return Bond{From: from, To: to, Order: order, Aromatic: aromatic}
}

func (p *smilesParser) ringClosure(num int) error {
	if p.prev < 0 {
		return p.errorf("ring closure before any atom")
	}
	if open, ok := p.rings[num]; ok {
		delete(p.rings, num)
		if open.atom == p.prev {
			return p.errorf("ring bond %d closes on its own atom", num)
		}
		order := p.nextOrder
		if order == 0 {
			order = open.order
		}
		p.nextOrder = order
		p.bonds = append(p.bonds, p.makeBond(open.atom, p.prev))
		p.nextOrder = 0
		return nil
	}
	p.rings[num] = pendingRing{atom: p.prev, order: p.nextOrder}
	p.nextOrder = 0
	return nil
}

// organicAtom consumes an organic-subset atom (possibly two characters, as
// in Cl/Br) or an aromatic lowercase atom.
func (p *smilesParser) organicAtom() error {
	rest := p.input[p.pos:]
	twoLetter := []string{"Cl", "Br"}
	for _, sym := range twoLetter {
		if strings.HasPrefix(rest, sym) {
			p.addAtom(Atom{Element: sym}, false)
			p.pos += 2
			return nil
		}
	}

	c := rest[0]
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.addAtom(Atom{Element: string(c)}, false)
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.addAtom(Atom{Element: strings.ToUpper(string(c)), Aromatic: true}, false)
	default:
		return p.errorf("unexpected character %q at position %d", c, p.pos)
	}
	p.pos++
	return nil
}

// bracketAtom consumes "[isotope? symbol chiral? Hcount? charge?]".
func (p *smilesParser) bracketAtom() error {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return p.errorf("unclosed bracket atom at position %d", p.pos)
	}
	body := p.input[p.pos+1 : p.pos+end]
	p.pos += end + 1
	if body == "" {
		return p.errorf("empty bracket atom")
	}

	a := Atom{}
	i := 0

	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}
	if i >= len(body) {
		return p.errorf("bracket atom %q has no element symbol", body)
	}

	// Element symbol: capital + optional lowercase, or aromatic lowercase.
	if body[i] >= 'A' && body[i] <= 'Z' {
		sym := string(body[i])
		i++
		if i < len(body) && body[i] >= 'a' && body[i] <= 'z' && body[i] != 'h' {
			candidate := sym + string(body[i])
			if _, ok := atomicWeights[candidate]; ok {
				sym = candidate
				i++
			}
		}
		a.Element = sym
	} else if body[i] >= 'a' && body[i] <= 'z' {
		a.Element = strings.ToUpper(string(body[i]))
		a.Aromatic = true
		i++
	} else {
		return p.errorf("bracket atom %q has invalid element symbol", body)
	}

	hExplicit := false
	for i < len(body) {
		switch body[i] {
		case '@':
			if i+1 < len(body) && body[i+1] == '@' {
				a.Chirality = ChiralityClockwise
				i += 2
			} else {
				a.Chirality = ChiralityCounterClock
				i++
			}
		case 'H':
			hExplicit = true
			a.Hydrogens = 1
			i++
			n := 0
			for i < len(body) && body[i] >= '0' && body[i] <= '9' {
				n = n*10 + int(body[i]-'0')
				i++
			}
			if n > 0 {
				a.Hydrogens = n
			}
		case '+', '-':
			sign := 1
			if body[i] == '-' {
				sign = -1
			}
			i++
			count := 1
			// ++ / -- repetition or explicit digit
			for i < len(body) && body[i] == body[i-1] {
				count++
				i++
			}
			n := 0
			for i < len(body) && body[i] >= '0' && body[i] <= '9' {
				n = n*10 + int(body[i]-'0')
				i++
			}
			if n > 0 {
				count = n
			}
			a.Charge = sign * count
		default:
			return p.errorf("unexpected %q in bracket atom %q", body[i], body)
		}
	}

	p.addAtom(a, hExplicit)
	return nil
}
