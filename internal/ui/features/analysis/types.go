package analysis

// Alert texts.
const (
	msgSelectPDF      = "Please select a PDF specification file first"
	msgSelectDebugPDF = "Please select a PDF file first"
	msgUploadTooLarge = "The selected files are too large to upload"
	msgBadUpload      = "The upload could not be read"
)

// DefaultMaxUpload bounds a multipart upload when no limit is configured.
const DefaultMaxUpload = 32 << 20
