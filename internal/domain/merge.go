package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Merge applies a partial update to a logistics object's content.
//
// The @id field is the object's identity and is silently discarded from the
// patch. When both the existing value and the patch value of a field are
// arrays the patch elements are appended; any other combination overwrites
// the existing value.
func Merge(content Document, patch Document) Document {
	if content == nil {
		content = Document{}
	}

	for field, patchValue := range patch {
		if field == "@id" {
			continue
		}

		patchArr, patchIsArr := asArray(patchValue)
		if !patchIsArr {
			content[field] = patchValue
			continue
		}

		existingArr, existingIsArr := asArray(content[field])
		if !existingIsArr {
			content[field] = patchValue
			continue
		}

		content[field] = append(existingArr, patchArr...)
	}

	return content
}

// asArray recognizes both JSON-decoded arrays and arrays loaded back from
// the record store, which the BSON decoder yields as primitive.A.
func asArray(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case primitive.A:
		return []any(arr), true
	default:
		return nil, false
	}
}
