package gateway

// Capability describes one operation for gateway clients.
type Capability struct {
	Operation   string   `json:"operation"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
}

// Capabilities describes every operation Dispatch accepts together with the active
// admission limits.
type Capabilities struct {
	Operations          []Capability `json:"operations"`
	MaxFileSizeBytes    int64        `json:"maxFileSizeBytes"`
	AllowedContentTypes []string     `json:"allowedContentTypes"`
	Thumbnails          bool         `json:"thumbnails"`
}

// Capabilities returns the operation catalogue.
func (h *Handler) Capabilities() Capabilities {
	upload := Capability{
		Operation:   OpUpload,
		Description: "Upload a base64 payload and return a presigned download URL.",
		Required:    []string{"bucket", "key", "data", "contentType"},
		Optional:    []string{"uploadedBy", "entityScope", "originalFilename"},
	}
	thumbnails := h.thumbs != nil && h.thumbs.Available()
	if thumbnails {
		upload.Optional = append(upload.Optional, "thumbnails")
	}

	return Capabilities{
		Operations: []Capability{
			upload,
			{
				Operation:   OpList,
				Description: "List objects in lexicographic key order, one page at a time.",
				Required:    []string{"bucket"},
				Optional:    []string{"prefix", "limit", "marker"},
			},
			{
				Operation:   OpGetURL,
				Description: "Issue a presigned download URL for an existing object.",
				Required:    []string{"bucket", "key"},
				Optional:    []string{"expiresIn"},
			},
			{
				Operation:   OpDelete,
				Description: "Delete an existing object.",
				Required:    []string{"bucket", "key"},
			},
			{
				Operation:   OpStat,
				Description: "Return the metadata of one object.",
				Required:    []string{"bucket", "key"},
			},
			{
				Operation:   OpHealth,
				Description: "Probe the storage backend.",
				Required:    []string{},
			},
		},
		MaxFileSizeBytes:    h.cfg.maxFileSize(),
		AllowedContentTypes: h.allowed,
		Thumbnails:          thumbnails,
	}
}
