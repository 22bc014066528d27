package formdata

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ImageURLs collects the File URLs from a list of upload wrappers:
//
//	[{"تحميل": [{"File": "https://..."}, ...]}, ...]
//
// Items without an upload list, uploads without a File and empty File values
// are skipped. URLs are returned in encounter order.
func ImageURLs(v any) []string {
	items, ok := List(v)
	if !ok {
		return nil
	}

	var urls []string
	for _, item := range items {
		uploads, ok := ListAt(item, KeyUploads)
		if !ok {
			continue
		}
		for _, upload := range uploads {
			file, ok := Get(upload, KeyFile)
			if !ok {
				continue
			}
			if url, ok := file.(string); ok && url != "" {
				urls = append(urls, url)
			}
		}
	}
	return urls
}

// ImagesJSON returns the JSON encoding of ImageURLs(v), or nil when no URL was
// found so the column is stored as NULL.
func ImagesJSON(v any) datatypes.JSON {
	urls := ImageURLs(v)
	if len(urls) == 0 {
		return nil
	}
	encoded, err := json.Marshal(urls)
	if err != nil {
		// []string always encodes
		return nil
	}
	return datatypes.JSON(encoded)
}
