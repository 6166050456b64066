package lex

// EditRange addresses a replacement within the lexer's line-oriented text,
// in line/column coordinates. StartCol/EndCol are line-relative code-unit
// offsets, matching the addressing the incremental update algorithm uses
// internally.
type EditRange struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// State is the mutable, incrementally-updatable sequence of lexed lines
// that backs edit-driven relexing. It must be externally synchronized by
// the caller; it has no internal locking.
type State struct {
	lines []Line
}

// Lines returns the state's lines. The returned slice must not be mutated.
func (st *State) Lines() []Line { return st.lines }

func lexOneLine(text string, modeStart LexMode) Line {
	result := LexLine(text, modeStart)
	line := Line{
		Text:      text,
		ModeStart: modeStart,
		ModeEnd:   result.ModeEnd,
		Tokens:    result.Tokens,
	}
	if result.Err != nil {
		line.Status = LineTouchedWithError
		line.Err = result.Err
	} else {
		line.Status = LineTouched
	}
	return line
}

// markUntouched demotes every line's status at the start of an edit: a
// clean line becomes LineUntouched and a line still carrying an error
// becomes LineErrorStatus. Lines the edit then relexes get a fresh status.
func (st *State) markUntouched() {
	for k := range st.lines {
		if st.lines[k].Status.HasError() {
			st.lines[k].Status = LineErrorStatus
		} else {
			st.lines[k].Status = LineUntouched
		}
	}
}

// FromText splits text into lines and lexes each of them in order,
// threading each line's ModeEnd into the next line's ModeStart. The first
// line always enters in ModeDefault.
func FromText(text string) *State {
	split := splitLines(text)
	lines := make([]Line, len(split))
	mode := ModeDefault
	for i, raw := range split {
		lines[i] = lexOneLine(raw.Text, mode)
		lines[i].Terminator = raw.Terminator
		mode = lines[i].ModeEnd
	}
	return &State{lines: lines}
}

// relexFrom relexes lines starting at index i using mode as i's entry mode,
// cascading downstream only while each line's newly computed ModeEnd
// differs from the mode it was previously lexed under — once a line
// relexes to the same exit mode it had before, every line after it is
// still valid, so the cascade can stop. It always relexes i itself at
// least once.
func (st *State) relexFrom(i int, mode LexMode) {
	for i < len(st.lines) {
		old := st.lines[i]
		relexed := lexOneLine(old.Text, mode)
		relexed.Terminator = old.Terminator
		changed := relexed.ModeEnd != old.ModeEnd
		st.lines[i] = relexed

		if !changed {
			return
		}
		mode = relexed.ModeEnd
		i++
	}
}

// AppendLine appends a new line of text, lexed under the previous last
// line's exit mode (ModeDefault if this is the first line).
func (st *State) AppendLine(text string) {
	st.markUntouched()
	mode := ModeDefault
	if n := len(st.lines); n > 0 {
		mode = st.lines[n-1].ModeEnd
	}
	line := lexOneLine(text, mode)
	line.Terminator = ""
	if n := len(st.lines); n > 0 && st.lines[n-1].Terminator == "" {
		// The previous "last" line had no terminator because it used to be
		// the final line; it now needs one to separate it from the newly
		// appended line. It is not relexed: terminators are not token
		// content, so adding one cannot change its tokens or exit mode.
		st.lines[n-1].Terminator = "\n"
	}
	st.lines = append(st.lines, line)
}

// UpdateLine replaces line i's text and relexes it plus every downstream
// line whose recomputed ModeStart differs from its previously stored
// ModeStart. Relexing stops at the first line where the two agree, since
// that proves the remaining suffix is still valid.
func (st *State) UpdateLine(i int, text string) {
	if i < 0 || i >= len(st.lines) {
		panicInvariant("UpdateLine: index %d out of range [0,%d)", i, len(st.lines))
	}
	st.markUntouched()
	mode := ModeDefault
	if i > 0 {
		mode = st.lines[i-1].ModeEnd
	}
	st.lines[i].Text = text
	st.relexFrom(i, mode)
}

// DeleteLine removes line i and relexes downstream lines until the mode
// chain converges.
func (st *State) DeleteLine(i int) {
	if i < 0 || i >= len(st.lines) {
		panicInvariant("DeleteLine: index %d out of range [0,%d)", i, len(st.lines))
	}
	st.markUntouched()
	st.lines = append(st.lines[:i], st.lines[i+1:]...)
	if i >= len(st.lines) {
		return
	}
	mode := ModeDefault
	if i > 0 {
		mode = st.lines[i-1].ModeEnd
	}
	st.relexFrom(i, mode)
}

// UpdateRange reconstructs the lines spanned by r using replacement,
// splices them back into the state, and relexes from the first affected
// line the way UpdateLine does.
func (st *State) UpdateRange(r EditRange, replacement string) {
	if r.StartLine < 0 || r.EndLine >= len(st.lines) || r.StartLine > r.EndLine {
		panicInvariant("UpdateRange: invalid range %+v for %d lines", r, len(st.lines))
	}
	st.markUntouched()

	prefix := st.lines[r.StartLine].Text[:codeUnitByteOffset(st.lines[r.StartLine].Text, r.StartCol)]
	suffix := st.lines[r.EndLine].Text[codeUnitByteOffset(st.lines[r.EndLine].Text, r.EndCol):]
	merged := prefix + replacement + suffix

	newRaw := splitLines(merged)
	// The last synthesized line inherits the terminator of the original
	// EndLine (merged has no real terminator of its own to split on for
	// its final segment); every earlier synthesized line already carries
	// the terminator splitLines found inside replacement.
	origTerminator := st.lines[r.EndLine].Terminator
	mode := ModeDefault
	if r.StartLine > 0 {
		mode = st.lines[r.StartLine-1].ModeEnd
	}
	// Every synthesized line but the last is lexed here, threading the mode.
	// The last keeps EndLine's old exit mode so that relexFrom can compare
	// its new exit mode against it and cascade into the tail if they differ.
	newLines := make([]Line, len(newRaw))
	for i, raw := range newRaw {
		if i < len(newRaw)-1 {
			newLines[i] = lexOneLine(raw.Text, mode)
			mode = newLines[i].ModeEnd
		} else {
			newLines[i] = Line{Text: raw.Text, ModeEnd: st.lines[r.EndLine].ModeEnd}
		}
		newLines[i].Terminator = raw.Terminator
	}
	newLines[len(newLines)-1].Terminator = origTerminator

	tail := append([]Line{}, st.lines[r.EndLine+1:]...)
	head := append([]Line{}, st.lines[:r.StartLine]...)
	st.lines = append(head, newLines...)
	st.lines = append(st.lines, tail...)

	st.relexFrom(r.StartLine+len(newLines)-1, mode)
}

// codeUnitByteOffset converts a line-relative UTF-16 code-unit offset into
// a byte offset into text, for slicing.
func codeUnitByteOffset(text string, codeUnit int) int {
	s := &scanner{input: text}
	for s.codeUnit < codeUnit && !s.atEOF() {
		s.nextRune()
	}
	return s.pos
}
