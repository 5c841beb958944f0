package generator

// LabelFor maps a zero-based form index to its letter label: 0→"A", 1→"B",
// …, 25→"Z". Indices beyond the alphabet continue spreadsheet-style ("AA",
// "AB", …) so the function stays total, although request validation caps
// form counts at 26.
func LabelFor(index int) string {
	if index < 0 {
		return ""
	}
	label := ""
	n := index
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return label
}
