package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

var anonymousFunc = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// funcName returns the display name of a function value. Named functions
// and methods give their identifier; function literals are rendered from
// their source line as "[func(...) ... { ... }]".
func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(rv.Pointer())
	if rf == nil {
		return "func"
	}
	full := strings.TrimSuffix(rf.Name(), "-fm")
	if anonymousFunc.MatchString(full) {
		return anonymousName(rf, full)
	}
	return shortName(full)
}

func shortName(full string) string {
	name := full[strings.LastIndex(full, "/")+1:]
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return name[strings.LastIndex(name, ".")+1:]
}

func anonymousName(rf *runtime.Func, full string) string {
	file, line := rf.FileLine(rf.Entry())
	if src, ok := sources.line(file, line); ok {
		if text := literalText(src); text != "" {
			return "[" + text + "]"
		}
	}
	symbol := full[strings.LastIndex(full, "/")+1:]
	return fmt.Sprintf("[%s %s:%d]", symbol, filepath.Base(file), line)
}

// literalText extracts the function literal starting on a source line. A
// literal spanning several lines is cut at the end of the line.
func literalText(src string) string {
	start := strings.Index(src, "func(")
	if start < 0 {
		return strings.TrimSpace(src)
	}
	s := src[start:]
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if strings.HasPrefix(s[i:], "{}") {
				i++
				continue
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return strings.TrimSpace(s)
}

type sourceCache struct {
	mu    sync.Mutex
	files map[string][]string
}

var sources = &sourceCache{files: map[string][]string{}}

func (c *sourceCache) line(file string, n int) (string, bool) {
	c.mu.Lock()
	lines, ok := c.files[file]
	if !ok {
		if data, err := os.ReadFile(file); err == nil {
			lines = strings.Split(string(data), "\n")
		}
		c.files[file] = lines
	}
	c.mu.Unlock()

	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}
