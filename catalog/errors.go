package catalog

import "fmt"

// DataLoadError is the only error the catalog produces. It is returned once, at
// load time, when the source cannot be read or does not describe a valid catalog.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
