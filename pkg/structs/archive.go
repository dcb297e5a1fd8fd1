package structs

// Archive is a finished, encrypted archive.
type Archive struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}
