package bitfield

type AccessorKind uint8

const (
	// AccessorReserved a name already existing on the entity type, not served by this package
	AccessorReserved AccessorKind = iota
	// AccessorColumn the accessor of an ordinary column
	AccessorColumn
	// AccessorFlag the boolean accessor of one flag
	AccessorFlag
	// AccessorAggregate the list accessor of a whole bit field column
	AccessorAggregate
	// AccessorRaw the packed integer accessor of a bit field column
	AccessorRaw
)

func (this AccessorKind) String() string {
	switch this {
	case AccessorColumn:
		return "column"
	case AccessorFlag:
		return "flag"
	case AccessorAggregate:
		return "aggregate"
	case AccessorRaw:
		return "raw"
	default:
		return "reserved"
	}
}

// Binding binds an accessor name of a model. Immutable once created.
type Binding struct {
	Name     string
	Kind     AccessorKind
	Column   *Column
	Flag     string
	Position int
	Mask     int64
	// RawAccessor is the accessor of the packed integer the binding reads and writes through.
	RawAccessor string
}

func (this *Binding) String() string {
	s := this.Kind.String() + " " + this.Name
	if this.Kind == AccessorFlag {
		s += "(" + this.Column.Name + "&" + this.Flag + ")"
	}
	return s
}
