package entity

// TagNameMaxLen longitud máxima del nombre de una etiqueta.
const TagNameMaxLen = 50

// Tag etiqueta libre asociable a varios productos.
type Tag struct {
	ID   string
	Name string
}
