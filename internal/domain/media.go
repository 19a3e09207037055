package domain

// MediaKind selects how the media host stores an upload.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaFile is an uploaded file held in memory before relay to the media host.
type MediaFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Empty reports whether no file content was provided.
func (f *MediaFile) Empty() bool {
	return f == nil || len(f.Data) == 0
}
