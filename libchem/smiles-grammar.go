package libchem

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/psuresearch/Mapper/chem"
)

var smilesLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BracketAtom", Pattern: `\[[^\[\]]*\]`},
	{Name: "OrganicAtom", Pattern: `Cl|Br|[BCNOPSFI]|[bcnops]|\*`},
	{Name: "Ring", Pattern: `%[0-9][0-9]|[0-9]`},
	{Name: "Bond", Pattern: `[-=#:]`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Open", Pattern: `\(`},
	{Name: "Close", Pattern: `\)`},
})

type notationExpr struct {
	Frags []*fragExpr `parser:"(@@ (\".\" @@)*)?"`
}

type fragExpr struct {
	Start *atomExpr   `parser:"@@"`
	Links []*linkExpr `parser:"@@*"`
}

type linkExpr struct {
	Branch *branchExpr `parser:"  @@"`
	Chain  *bondedExpr `parser:"| @@"`
}

type branchExpr struct {
	Links []*linkExpr `parser:"\"(\" @@+ \")\""`
}

type bondedExpr struct {
	Bond string    `parser:"@Bond?"`
	Ring string    `parser:"( @Ring"`
	Atom *atomExpr `parser:"| @@ )"`
}

type atomExpr struct {
	Bracket string `parser:"  @BracketAtom"`
	Organic string `parser:"| @OrganicAtom"`
}

var parseNotationExpr = participle.MustBuild[notationExpr](
	participle.Lexer(smilesLexer),
	participle.UseLookahead(2),
)

type ringRef struct {
	atom AtomID
	bond BondType // NilBond when no explicit bond symbol at the opening digit
}

type molBuilder struct {
	mol      *Mol
	prev     AtomID // 0 at the start of each fragment
	ringOpen map[int]ringRef
}

func (mb *molBuilder) applyFrag(frag *fragExpr) error {
	ai, err := mb.addAtom(frag.Start)
	if err != nil {
		return err
	}
	mb.prev = ai
	return mb.applyLinks(frag.Links)
}

func (mb *molBuilder) applyLinks(links []*linkExpr) error {
	for _, link := range links {
		if link.Branch != nil {
			branchFrom := mb.prev
			if err := mb.applyLinks(link.Branch.Links); err != nil {
				return err
			}
			mb.prev = branchFrom
			continue
		}
		if err := mb.applyChain(link.Chain); err != nil {
			return err
		}
	}
	return nil
}

func (mb *molBuilder) applyChain(item *bondedExpr) error {
	bt, err := parseBondStr(item.Bond)
	if err != nil {
		return err
	}

	if item.Ring != "" {
		return mb.applyRing(item.Ring, bt)
	}

	ai, err := mb.addAtom(item.Atom)
	if err != nil {
		return err
	}
	if mb.prev != 0 {
		if err := mb.mol.AddBond(mb.bondOrDefault(bt, mb.prev, ai), mb.prev, ai); err != nil {
			return err
		}
	}
	mb.prev = ai
	return nil
}

func (mb *molBuilder) applyRing(digits string, bt BondType) error {
	if mb.prev == 0 {
		return chem.ErrBadBond
	}
	if digits[0] == '%' {
		digits = digits[1:]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return chem.ErrBadBond
	}

	open, isOpen := mb.ringOpen[n]
	if !isOpen {
		mb.ringOpen[n] = ringRef{atom: mb.prev, bond: bt}
		return nil
	}
	delete(mb.ringOpen, n)

	// An explicit bond symbol on either end of the ring closure wins.
	if bt == NilBond {
		bt = open.bond
	}
	return mb.mol.AddBond(mb.bondOrDefault(bt, open.atom, mb.prev), open.atom, mb.prev)
}

// bondOrDefault resolves an absent bond symbol: aromatic when both atoms are
// aromatic, single otherwise.
func (mb *molBuilder) bondOrDefault(bt BondType, a, b AtomID) BondType {
	if bt != NilBond {
		return bt
	}
	if mb.mol.AtomAt(int(a)-1).Aromatic && mb.mol.AtomAt(int(b)-1).Aromatic {
		return AromaticBond
	}
	return SingleBond
}

func (mb *molBuilder) addAtom(expr *atomExpr) (AtomID, error) {
	var (
		atom Atom
		err  error
	)
	if expr.Bracket != "" {
		atom, err = parseBracketAtom(expr.Bracket)
	} else {
		atom, err = parseOrganicAtom(expr.Organic)
	}
	if err != nil {
		return 0, err
	}
	if len(mb.mol.atoms) >= chem.MaxAtomID {
		return 0, chem.ErrBadAtom
	}
	return mb.mol.AddAtom(atom), nil
}

func parseBondStr(str string) (BondType, error) {
	switch str {
	case "":
		return NilBond, nil
	case "-":
		return SingleBond, nil
	case "=":
		return DoubleBond, nil
	case "#":
		return TripleBond, nil
	case ":":
		return AromaticBond, nil
	}
	return NilBond, chem.ErrBadBondType
}

func parseOrganicAtom(sym string) (Atom, error) {
	atom := Atom{HCount: -1}

	lower := sym[0] >= 'a' && sym[0] <= 'z'
	if lower {
		sym = string(sym[0]-'a'+'A') + sym[1:]
	}
	atom.El = ElementForSymbol(sym)
	if atom.El == ElNil || (lower && !atom.El.CanBeAromatic()) {
		return atom, chem.ErrBadAtom
	}
	atom.Aromatic = lower
	return atom, nil
}

// parseBracketAtom scans the body of a bracket atom such as [15NH4+2]:
// optional isotope digits, element symbol (lowercase for aromatic), optional
// explicit H count, optional formal charge.
func parseBracketAtom(str string) (Atom, error) {
	atom := Atom{HCount: 0}
	s := str[1 : len(str)-1] // strip [ ]
	i := 0

	// Isotope
	iso := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		iso = iso*10 + int(s[i]-'0')
		i++
	}
	if iso > 0 {
		if iso > 1<<15-1 {
			return atom, chem.ErrBadAtom
		}
		atom.Isotope = int16(iso)
	}

	// Element symbol, two-letter first
	if i+1 < len(s) {
		if el := ElementForSymbol(s[i : i+2]); el != ElNil {
			atom.El = el
			i += 2
		}
	}
	if atom.El == ElNil && i < len(s) {
		c := s[i]
		lower := c >= 'a' && c <= 'z'
		if lower {
			c = c - 'a' + 'A'
		}
		atom.El = ElementForSymbol(string(c))
		if atom.El == ElNil || (lower && !atom.El.CanBeAromatic()) {
			return atom, chem.ErrBadAtom
		}
		atom.Aromatic = lower
		i++
	}
	if atom.El == ElNil {
		return atom, chem.ErrBadAtom
	}

	// Explicit hydrogen count (the symbol H itself takes no H suffix)
	if atom.El != ElH && i < len(s) && s[i] == 'H' {
		i++
		h := 1
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			h = int(s[i] - '0')
			i++
		}
		atom.HCount = int8(h)
	}

	// Formal charge: +, -, repeated, or followed by a digit
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		mark := s[i]
		n := 0
		for i < len(s) && s[i] == mark {
			n++
			i++
		}
		if n == 1 && i < len(s) && s[i] >= '0' && s[i] <= '9' {
			n = int(s[i] - '0')
			i++
		}
		if n > 7 {
			return atom, chem.ErrBadCharge
		}
		atom.Charge = int8(sign * n)
	}

	if i != len(s) {
		return atom, chem.ErrBadAtom
	}
	return atom, nil
}

// InitFromNotation assigns this Mol by parsing the given reaction-side
// notation (a SMILES subset with dot-separated fragments).
func (m *Mol) InitFromNotation(notation string) error {
	m.Init(nil)

	expr, err := parseNotationExpr.ParseString("", notation)
	if err != nil {
		return err
	}

	mb := molBuilder{
		mol:      m,
		ringOpen: make(map[int]ringRef),
	}
	for _, frag := range expr.Frags {
		mb.prev = 0
		if err := mb.applyFrag(frag); err != nil {
			return err
		}
	}
	if len(mb.ringOpen) > 0 {
		return chem.ErrRingBondOpen
	}
	return nil
}
