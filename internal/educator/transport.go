package educator

// UploadURLRequest describes a file the educator is about to upload.
type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// DownloadURLRequest selects an object owned by the educator.
type DownloadURLRequest struct {
	Key string `form:"key" validate:"required,max=1024"`
}
