package bitfield

// Row is the storage of one entity instance, owned by the host persistence layer.
type Row interface {
	// GetColumn reads the declared value of column.
	GetColumn(column string) (value interface{}, ok bool)
	// SetColumn writes the declared value of column.
	SetColumn(column string, value interface{}) error
}

// MapRow is a Row backed by a map of column values.
type MapRow map[string]interface{}

func (this MapRow) GetColumn(column string) (value interface{}, ok bool) {
	value, ok = this[column]
	return
}

func (this MapRow) SetColumn(column string, value interface{}) error {
	this[column] = value
	return nil
}

// Constructor builds a new row from column values.
type Constructor interface {
	New(values map[string]interface{}) (Row, error)
}

type ConstructorFunc func(values map[string]interface{}) (Row, error)

func (f ConstructorFunc) New(values map[string]interface{}) (Row, error) {
	return f(values)
}

// MapConstructor builds MapRows.
var MapConstructor Constructor = ConstructorFunc(func(values map[string]interface{}) (Row, error) {
	row := make(MapRow, len(values))
	for column, value := range values {
		row[column] = value
	}
	return row, nil
})
