package model

// Tags packs the role and training flags for one user into a single integer.
// Bit layout, lowest bit first: White, Blue, Green, Orange, Admin,
// Supervisor. The store mirrors the four training bits into per-color boolean
// columns; Decompose is the single source of truth for that mirror.
type Tags int64

const (
	TagWhite Tags = 1 << iota
	TagBlue
	TagGreen
	TagOrange
	TagAdmin
	TagSupervisor

	// AllTags is every defined bit set.
	AllTags = TagWhite | TagBlue | TagGreen | TagOrange | TagAdmin | TagSupervisor
)

// TagFlags is the unpacked form of a Tags mask.
type TagFlags struct {
	White      bool `json:"white"`
	Blue       bool `json:"blue"`
	Green      bool `json:"green"`
	Orange     bool `json:"orange"`
	Admin      bool `json:"admin"`
	Supervisor bool `json:"supervisor"`
}

func (t Tags) Has(bit Tags) bool { return t&bit != 0 }

func (t Tags) White() bool      { return t.Has(TagWhite) }
func (t Tags) Blue() bool       { return t.Has(TagBlue) }
func (t Tags) Green() bool      { return t.Has(TagGreen) }
func (t Tags) Orange() bool     { return t.Has(TagOrange) }
func (t Tags) Admin() bool      { return t.Has(TagAdmin) }
func (t Tags) Supervisor() bool { return t.Has(TagSupervisor) }

// Valid reports whether the mask is non-negative and uses only defined bits.
func (t Tags) Valid() bool {
	return t >= 0 && t&^AllTags == 0
}

// Decompose unpacks the mask into named flags.
func (t Tags) Decompose() TagFlags {
	return TagFlags{
		White:      t.White(),
		Blue:       t.Blue(),
		Green:      t.Green(),
		Orange:     t.Orange(),
		Admin:      t.Admin(),
		Supervisor: t.Supervisor(),
	}
}

// ComposeTags is the inverse of Decompose.
func ComposeTags(f TagFlags) Tags {
	var t Tags
	if f.White {
		t |= TagWhite
	}
	if f.Blue {
		t |= TagBlue
	}
	if f.Green {
		t |= TagGreen
	}
	if f.Orange {
		t |= TagOrange
	}
	if f.Admin {
		t |= TagAdmin
	}
	if f.Supervisor {
		t |= TagSupervisor
	}
	return t
}
