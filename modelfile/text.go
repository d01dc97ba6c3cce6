package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/happyhackingspace/langid/model"
)

// The langid.py text dump stores one table per line as key=value. nb_ptc is
// feature-major there ([feature][class]) and is transposed on the way in and
// out so that the in-memory matrix stays class-major.

var (
	listSep   = regexp.MustCompile(`[,\s]+`)
	tupleJunk = strings.NewReplacer("(", "", ")", "")
)

const maxLine = 256 << 20

func readText(r io.Reader) (model.Raw, error) {
	var (
		raw      model.Raw
		ptc      []float64
		outputs  map[int][]int
		seenKeys = make(map[string]bool)
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		var err error
		switch key {
		case "nb_classes":
			raw.Labels = splitList(val)
		case "nb_pc":
			raw.ClassPrior, err = parseFloats(val)
		case "nb_ptc":
			ptc, err = parseFloats(val)
		case "tk_nextmove":
			raw.Transitions, err = parseStates(val)
		case "tk_output":
			outputs, err = parseOutputs(val)
		default:
			continue
		}
		if err != nil {
			return model.Raw{}, fmt.Errorf("line %d (%s): %w", lineNo, key, err)
		}
		seenKeys[key] = true
	}
	if err := sc.Err(); err != nil {
		return model.Raw{}, err
	}
	for _, k := range []string{"nb_classes", "nb_pc", "nb_ptc", "tk_nextmove"} {
		if !seenKeys[k] {
			return model.Raw{}, fmt.Errorf("missing %s", k)
		}
	}

	numClasses := len(raw.Labels)
	if numClasses == 0 || len(ptc)%numClasses != 0 {
		return model.Raw{}, fmt.Errorf("nb_ptc has %d entries for %d classes", len(ptc), numClasses)
	}
	raw.FeatureLogProb = transpose(ptc, len(ptc)/numClasses, numClasses)

	numStates := len(raw.Transitions) / model.Alphabet
	raw.StateFeatures = make([][]int, numStates)
	for state, feats := range outputs {
		if state >= numStates {
			return model.Raw{}, fmt.Errorf("tk_output names state %d of %d", state, numStates)
		}
		raw.StateFeatures[state] = feats
	}
	return raw, nil
}

func writeText(w io.Writer, raw model.Raw) error {
	bw := bufio.NewWriter(w)
	numClasses := len(raw.Labels)
	numFeatures := len(raw.FeatureLogProb) / numClasses

	fmt.Fprintf(bw, "nb_classes=%s\n", strings.Join(raw.Labels, ","))
	writeFloats(bw, "nb_pc", raw.ClassPrior)
	writeFloats(bw, "nb_ptc", transpose(raw.FeatureLogProb, numClasses, numFeatures))

	bw.WriteString("tk_nextmove=")
	for i, s := range raw.Transitions {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatUint(uint64(s), 10))
	}
	bw.WriteByte('\n')

	bw.WriteString("tk_output=")
	first := true
	for state, feats := range raw.StateFeatures {
		if len(feats) == 0 {
			continue
		}
		if !first {
			bw.WriteByte(';')
		}
		first = false
		fmt.Fprintf(bw, "%d:(", state)
		for i, f := range feats {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(strconv.Itoa(f))
		}
		bw.WriteByte(')')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeFloats(bw *bufio.Writer, key string, vals []float64) {
	bw.WriteString(key)
	bw.WriteByte('=')
	for i, v := range vals {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	bw.WriteByte('\n')
}

// transpose turns a rows×cols row-major matrix into cols×rows.
func transpose(m []float64, rows, cols int) []float64 {
	out := make([]float64, len(m))
	for r := range rows {
		for c := range cols {
			out[c*rows+r] = m[r*cols+c]
		}
	}
	return out
}

func splitList(val string) []string {
	var out []string
	for _, s := range listSep.Split(strings.TrimSpace(val), -1) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseFloats(val string) ([]float64, error) {
	fields := splitList(val)
	out := make([]float64, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseInts(val string) ([]int, error) {
	fields := splitList(val)
	out := make([]int, len(fields))
	for i, s := range fields {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func parseStates(val string) ([]uint16, error) {
	ints, err := parseInts(val)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, len(ints))
	for i, n := range ints {
		s, err := safecast.Conv[uint16](n)
		if err != nil {
			return nil, fmt.Errorf("state %d at position %d: %w", n, i, err)
		}
		out[i] = s
	}
	return out, nil
}

func parseOutputs(val string) (map[int][]int, error) {
	out := make(map[int][]int)
	for _, pair := range strings.Split(val, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("malformed entry %q", pair)
		}
		state, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, err
		}
		if state < 0 {
			return nil, fmt.Errorf("negative state %d", state)
		}
		feats, err := parseInts(tupleJunk.Replace(v))
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", state, err)
		}
		if len(feats) > 0 {
			out[state] = feats
		}
	}
	return out, nil
}
