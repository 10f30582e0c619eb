// Package formats provides parsers for mesh file formats.
package formats

// Note: the Wavefront OBJ subset is implemented in obj.go
