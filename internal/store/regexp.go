package store

import (
	"fmt"
	"regexp"
	"sync"
)

// patternCache keeps compiled REGEXP patterns for the lifetime of the process
type patternCache struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{patterns: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid REGEXP pattern %q: %w", pattern, err)
	}
	c.patterns[pattern] = re
	return re, nil
}

// match implements `value REGEXP pattern`. SQLite passes the pattern first.
// The match is anchored at the start of the value; NULL never matches.
func (c *patternCache) match(pattern string, value interface{}) (bool, error) {
	var s string
	switch v := value.(type) {
	case nil:
		return false, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	re, err := c.compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

var defaultPatterns = newPatternCache()
