package block

import "fmt"

// annotation formats the derived image counter written to a text row.
func annotation(n int) string {
	return fmt.Sprintf("Images: %d", n)
}

// Renumber recomputes the derived annotation on every text row: each text
// row counts the image blocks that follow it before the next text row.
// Images preceding the first text row are not counted. The pass is
// idempotent, and an annotation that already matches is left untouched.
func Renumber(d Document) Document {
	out := d.Clone()

	// Forward scan with explicit carried state: the index of the most
	// recent text row, and the image count accumulated per text row.
	counts := make(map[int]int)
	current := -1
	for i, b := range out.Blocks {
		switch b.Kind {
		case KindText:
			current = i
			counts[i] = 0
		case KindImage:
			if current >= 0 {
				counts[current]++
			}
		}
	}

	for i, n := range counts {
		if s := annotation(n); out.Blocks[i].SubText != s {
			out.Blocks[i].SubText = s
		}
	}
	return out
}
