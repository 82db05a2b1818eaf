package helpers

// Collects the pieces of an output file and copies them into a single buffer
// of exactly the right size once everything is known.
type Joiner struct {
	pieces []string
	length int
}

func (j *Joiner) AddString(data string) {
	if data != "" {
		j.pieces = append(j.pieces, data)
		j.length += len(data)
	}
}

func (j *Joiner) Length() int {
	return j.length
}

// Does nothing for an empty joiner
func (j *Joiner) EnsureNewlineAtEnd() {
	if n := len(j.pieces); n > 0 {
		if last := j.pieces[n-1]; last[len(last)-1] != '\n' {
			j.AddString("\n")
		}
	}
}

func (j *Joiner) Done() []byte {
	buffer := make([]byte, 0, j.length)
	for _, piece := range j.pieces {
		buffer = append(buffer, piece...)
	}
	return buffer
}
