package batch

import (
	"fmt"

	"cqlbulk/internal/mapper"
)

// estimateSize approximates a statement's serialized wire size: the
// prepared template text plus a textual rendering of each bound value.
// This is a conservative estimate, not the driver's actual wire encoding
// (which is out of scope here per the driver contract boundary), but it is
// monotonic in the same way real encodings are, which is all the batching
// ceiling needs.
func estimateSize(stmt *mapper.Statement) int64 {
	n := int64(len(stmt.Template.CQL))
	for _, v := range stmt.Values {
		n += int64(len(fmt.Sprintf("%v", v)))
	}
	return n
}
