package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/heartmarshall/vocab-curator/internal/domain"
)

type substitution struct {
	suffix, replacement string
}

// Detachment rules, tried in order.
var substitutions = [groupCount][]substitution{
	groupNoun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	groupVerb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	groupAdj: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	groupAdv: nil,
}

var exceptionFiles = [groupCount]string{
	groupNoun: "noun.exc",
	groupVerb: "verb.exc",
	groupAdj:  "adj.exc",
	groupAdv:  "adv.exc",
}

// LoadExceptions reads the WordNet exception lists (noun.exc, verb.exc,
// adj.exc, adv.exc) from dir. Missing files are skipped. Each line holds an
// inflected form followed by one or more base forms. Returns the number of
// exception entries loaded.
func (l *Lexicon) LoadExceptions(dir string) (int, error) {
	total := 0
	for g, name := range exceptionFiles {
		n, err := l.loadExceptionFile(g, filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return total, fmt.Errorf("load %s: %w", name, err)
		}
		total += n
	}
	l.morphy.Purge()
	return total, nil
}

func (l *Lexicon) loadExceptionFile(g int, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		l.exceptions[g][fields[0]] = append(l.exceptions[g][fields[0]], fields[1:]...)
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, nil
}

// Morphy returns the base form of word under pos, the way WordNet's morphy
// does: exception lists first; otherwise the word itself together with one
// round of suffix detachment, keeping only forms that are lemmas of pos; if
// nothing survives, detachment continues on the generated forms until a
// lemma is found or no forms remain. The word itself is returned when it is
// already a lemma of pos.
func (l *Lexicon) Morphy(word string, pos domain.PartOfSpeech) (string, bool) {
	forms := l.lemmaForms(word, groupOf(pos))
	if len(forms) == 0 {
		return "", false
	}
	return forms[0], true
}

// lemmaForms returns every lemma of group g that word analyses to, in
// morphy order. The word itself comes first when it is a lemma.
func (l *Lexicon) lemmaForms(word string, g int) []string {
	key := morphyKey{word: word, group: g}
	if forms, ok := l.morphy.Get(key); ok {
		return forms
	}

	forms := l.lemmaFormsUncached(word, g)
	l.morphy.Add(key, forms)
	return forms
}

func (l *Lexicon) lemmaFormsUncached(word string, g int) []string {
	if bases, ok := l.exceptions[g][word]; ok {
		return l.keepLemmas(g, append([]string{word}, bases...))
	}

	forms := applyRules(g, []string{word})
	if found := l.keepLemmas(g, append([]string{word}, forms...)); len(found) > 0 {
		return found
	}
	for len(forms) > 0 {
		forms = applyRules(g, forms)
		if found := l.keepLemmas(g, forms); len(found) > 0 {
			return found
		}
	}
	return nil
}

// keepLemmas filters forms to distinct lemmas of group g, keeping order.
func (l *Lexicon) keepLemmas(g int, forms []string) []string {
	var out []string
	for _, f := range forms {
		if !l.inGroup(f, g) || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// applyRules produces every form reachable by one detachment. Duplicates
// are dropped so repeated rounds stay small.
func applyRules(g int, forms []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, form := range forms {
		for _, sub := range substitutions[g] {
			if !strings.HasSuffix(form, sub.suffix) {
				continue
			}
			next := form[:len(form)-len(sub.suffix)] + sub.replacement
			if _, dup := seen[next]; dup {
				continue
			}
			seen[next] = struct{}{}
			out = append(out, next)
		}
	}
	return out
}
