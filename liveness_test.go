package main_test

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"
	"text/scanner"

	"github.com/mahbod-afarin/liveness/analyzer"
	"github.com/mahbod-afarin/liveness/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type posKey struct {
	file string
	line int
}

func TestLiveness(t *testing.T) {
	want := loadTestData(t)
	testOutput := bytes.NewBufferString("")
	results := runTests(t, testOutput)

	checkLivenessOutput(t, want, results, TestData())
}

func checkLivenessOutput(t *testing.T, want map[posKey][]*regexp.Regexp, results map[token.Position][]string, gopath string) {
	checkMessage := func(posn token.Position, message string) {
		k := posKey{sanitize(gopath, posn.Filename), posn.Line}
		expects := want[k]
		var unmatched []string
		for i, exp := range expects {
			if exp.MatchString(message) {
				// matched: remove the expectation.
				expects[i] = expects[len(expects)-1]
				expects = expects[:len(expects)-1]
				want[k] = expects
				return
			}
			unmatched = append(unmatched, fmt.Sprintf("%q", exp))
		}
		if unmatched == nil {
			t.Errorf("%v: unexpected block: %v", posn, message)
		} else {
			t.Errorf("%v: %q does not match pattern %s", posn, message, strings.Join(unmatched, " or "))
		}
	}

	for pos, messages := range results {
		for _, m := range messages {
			checkMessage(pos, m)
		}
	}

	var surplus []string
	for key, expects := range want {
		for _, exp := range expects {
			surplus = append(surplus, fmt.Sprintf("%s:%d: no block was reported matching %q", key.file, key.line, exp))
		}
	}
	sort.Strings(surplus)
	for _, err := range surplus {
		t.Error(err)
	}
}

func loadTestData(t *testing.T) map[posKey][]*regexp.Regexp {
	t.Helper()
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, "./tests/testdata", nil, parser.ParseComments)
	require.NoError(t, err)
	want := make(map[posKey][]*regexp.Regexp)

	for _, pkg := range pkgs {
		for _, f := range pkg.Files {
			for _, cgroup := range f.Comments {
				for _, c := range cgroup.List {
					if text := strings.TrimPrefix(c.Text, "// want"); text != c.Text {
						expects, err := parseExpectations(strings.TrimSpace(text))
						require.NoError(t, err)
						if expects != nil {
							pos := fset.Position(c.Pos())
							want[posKey{filepath.ToSlash(pos.Filename), pos.Line}] = expects
						}
					}
				}
			}
		}
	}
	require.NotEmpty(t, want)
	return want
}

// parseExpectations parses the content of a "// want ..." comment
// and returns the parsed regular expression for each block line.
func parseExpectations(text string) ([]*regexp.Regexp, error) {
	var scanErr string
	sc := new(scanner.Scanner).Init(strings.NewReader(text))
	sc.Error = func(s *scanner.Scanner, msg string) {
		scanErr = msg // e.g. bad string escape
	}
	sc.Mode = scanner.ScanStrings | scanner.ScanRawStrings

	var expects []*regexp.Regexp
	for {
		tok := sc.Scan()
		switch tok {
		case scanner.String, scanner.RawString:
			pattern, _ := strconv.Unquote(sc.TokenText()) // can't fail
			rx, err := regexp.Compile(pattern)
			if err != nil {
				return nil, err
			}
			expects = append(expects, rx)

		case scanner.EOF:
			if scanErr != "" {
				return nil, fmt.Errorf("%s", scanErr)
			}
			return expects, nil

		default:
			return nil, fmt.Errorf("unexpected %s", scanner.TokenString(tok))
		}
	}
}

func TestParseExpectations(t *testing.T) {
	expects, err := parseExpectations("`^0\\.entry: x$` \"^1:$\"")
	require.NoError(t, err)
	require.Len(t, expects, 2)
	require.True(t, expects[0].MatchString("0.entry: x"))
	require.True(t, expects[1].MatchString("1:"))

	_, err = parseExpectations("entry")
	require.Error(t, err)
}

func runTests(t *testing.T, writer io.Writer) map[token.Position][]string {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(writer)
	defer log.SetOutput(os.Stderr)
	out := make(map[token.Position][]string)
	analyzer := analyzer.NewAnalyzerConfig([]string{"./tests/testdata"}, config.ExcludedPkgs)
	analyzer.SetTestOutput(out)
	_, err := analyzer.Run()
	require.NoError(t, err)
	return out
}

// sanitize removes the working directory portion of the filename and
// returns the rest.
func sanitize(gopath, filename string) string {
	prefix := gopath + string(os.PathSeparator)
	return filepath.ToSlash(strings.TrimPrefix(filename, prefix))
}

// TestData returns the effective filename of
// the program's "testdata" directory.
// This function may be overridden by projects using
// an alternative build system (such as Blaze) that
// does not run a test in its package directory.
var TestData = func() string {
	testdata, err := filepath.Abs(".")
	if err != nil {
		log.Fatal(err)
	}
	return testdata
}
