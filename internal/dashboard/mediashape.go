package dashboard

import (
	"time"

	"content-dashboard/internal/domain/content"
)

// MediaFieldShape names the shapes a folder record's media collection has
// been observed to take on the wire.
type MediaFieldShape int

const (
	// MediaFieldAbsent: no media collection on the record yet.
	MediaFieldAbsent MediaFieldShape = iota
	// MediaFieldNestedPaths: an array of path strings nested under the
	// folder part's media field.
	MediaFieldNestedPaths
	// MediaFieldFlatRefs: a flat array of reference objects on the record.
	MediaFieldFlatRefs
)

func (s MediaFieldShape) String() string {
	switch s {
	case MediaFieldNestedPaths:
		return "nested-paths"
	case MediaFieldFlatRefs:
		return "flat-refs"
	default:
		return "absent"
	}
}

var (
	folderPartKeys = []string{"Folder", "folder"}
	mediaFieldKeys = []string{"Media", "media"}
	pathsKeys      = []string{"Paths", "paths"}
	flatRefKeys    = []string{"mediaItems", "MediaItems"}
)

const defaultFlatRefKey = "mediaItems"

// DetectMediaField reports which media collection shape a raw record
// carries, without modifying it.
func DetectMediaField(record map[string]any) MediaFieldShape {
	if _, _, _, ok := findNestedPaths(record); ok {
		return MediaFieldNestedPaths
	}
	if _, _, ok := findFlatRefs(record); ok {
		return MediaFieldFlatRefs
	}
	return MediaFieldAbsent
}

// AppendMediaReference merges ref into the record's media collection in
// whichever shape is already present, initializing a flat reference array
// when neither shape exists. It returns the shape that was matched.
func AppendMediaReference(record map[string]any, ref content.MediaReference) MediaFieldShape {
	if media, pathsKey, paths, ok := findNestedPaths(record); ok {
		media[pathsKey] = append(paths, ref.Path)
		return MediaFieldNestedPaths
	}

	if key, refs, ok := findFlatRefs(record); ok {
		record[key] = append(refs, referenceObject(ref))
		return MediaFieldFlatRefs
	}

	record[defaultFlatRefKey] = []any{referenceObject(ref)}
	return MediaFieldAbsent
}

// findNestedPaths locates the path-string array nested under the folder
// part's media field, returning the owning map so an append can be written
// back in place.
func findNestedPaths(record map[string]any) (media map[string]any, pathsKey string, paths []any, ok bool) {
	for _, partKey := range folderPartKeys {
		part, isMap := record[partKey].(map[string]any)
		if !isMap {
			continue
		}
		for _, mediaKey := range mediaFieldKeys {
			candidate, isMap := part[mediaKey].(map[string]any)
			if !isMap {
				continue
			}
			for _, key := range pathsKeys {
				if arr, isArr := candidate[key].([]any); isArr {
					return candidate, key, arr, true
				}
			}
		}
	}
	return nil, "", nil, false
}

func findFlatRefs(record map[string]any) (key string, refs []any, ok bool) {
	for _, candidate := range flatRefKeys {
		if arr, isArr := record[candidate].([]any); isArr {
			return candidate, arr, true
		}
	}
	return "", nil, false
}

func referenceObject(ref content.MediaReference) map[string]any {
	obj := map[string]any{
		"path": ref.Path,
		"name": ref.Name,
		"url":  ref.URL,
	}
	if ref.Size > 0 {
		obj["size"] = ref.Size
	}
	if ref.MimeType != "" {
		obj["mimeType"] = ref.MimeType
	}
	if ref.CreatedUtc != nil {
		obj["createdUtc"] = ref.CreatedUtc.UTC().Format(time.RFC3339)
	}
	return obj
}
