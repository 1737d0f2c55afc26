package binding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	binding "github.com/mjmahone/fragc/internal/binding"
	language "github.com/mjmahone/fragc/internal/language"
)

func mustParse(t *testing.T, source string) *language.Document {
	t.Helper()
	doc, err := language.ParseQuery(source)
	require.NoError(t, err)
	return doc
}

func TestResolvePrecedence(t *testing.T) {
	doc := mustParse(t, `
		query { me { ...Card(size: 50) } }
		fragment Card($size: Int = 10, $shape: String = "round", $label: String) on User {
			avatar(size: $size, shape: $shape, label: $label)
		}
	`)
	res := binding.NewResolver(doc)
	frag := doc.Fragments.ForName("Card")
	spread := doc.Operations[0].SelectionSet[0].(*language.Field).SelectionSet[0].(*language.FragmentSpread)

	b := res.Resolve(frag, spread.Arguments, nil)
	require.Equal(t, "50", b["size"].Raw)
	require.Equal(t, "round", b["shape"].Raw)
	require.Equal(t, language.NullValue, b["label"].Kind)
}

func TestResolveForwardsThroughParents(t *testing.T) {
	doc := mustParse(t, `
		query Feed($rootSize: Int!) {
			me { ...Outer(size: $rootSize) }
		}
		fragment Outer($size: Int!) on User {
			...Inner(width: $size, pad: 2)
		}
		fragment Inner($width: Int!, $pad: Int!) on User {
			box(width: $width, pad: $pad)
		}
	`)
	res := binding.NewResolver(doc)

	var sites []binding.Site
	res.Walk(doc.Operations[0], func(site binding.Site) {
		sites = append(sites, site)
	})
	require.Len(t, sites, 2)

	outer := sites[0]
	require.Equal(t, "Outer", outer.Fragment.Name)
	// $rootSize is an operation variable and stays a reference.
	require.Equal(t, language.Variable, outer.Bindings["size"].Kind)
	require.Equal(t, "rootSize", outer.Bindings["size"].Raw)

	inner := sites[1]
	require.Equal(t, "Inner", inner.Fragment.Name)
	require.Equal(t, []string{"Outer", "Inner"}, inner.Path)
	require.Equal(t, "rootSize", inner.Bindings["width"].Raw)
	require.Equal(t, "2", inner.Bindings["pad"].Raw)
}

func TestResolveSubstitutesInsideCompositeValues(t *testing.T) {
	doc := mustParse(t, `
		query { me { ...Outer(n: 3) } }
		fragment Outer($n: Int!) on User {
			...Inner(filter: {limit: $n, tags: [$n, 1]})
		}
		fragment Inner($filter: SearchFilter!) on User {
			results(filter: $filter)
		}
	`)
	res := binding.NewResolver(doc)

	var innerBindings binding.Bindings
	res.Walk(doc.Operations[0], func(site binding.Site) {
		if site.Fragment.Name == "Inner" {
			innerBindings = site.Bindings
		}
	})
	require.NotNil(t, innerBindings)
	require.Equal(t, "(filter: {limit:3,tags:[3,1]})", binding.Fingerprint(innerBindings))
}

func TestWalkTerminatesOnCycles(t *testing.T) {
	doc := mustParse(t, `
		query { me { ...A } }
		fragment A on User { name ...B }
		fragment B on User { id ...A }
	`)
	res := binding.NewResolver(doc)

	var visited []string
	res.Walk(doc.Operations[0], func(site binding.Site) {
		visited = append(visited, site.Fragment.Name)
	})
	require.Equal(t, []string{"A", "B"}, visited)
}

func TestWalkSkipsUnknownFragments(t *testing.T) {
	doc := mustParse(t, `query { me { ...Missing(x: 1) } }`)
	res := binding.NewResolver(doc)
	res.Walk(doc.Operations[0], func(binding.Site) {
		t.Fatal("no site should be reachable")
	})
}

func TestFingerprintIsCanonical(t *testing.T) {
	doc := mustParse(t, `
		query { me { ...P(b: 2, a: 1) ...Q(a: 1, b: 2) } }
		fragment P($a: Int, $b: Int) on User { f(a: $a, b: $b) }
		fragment Q($a: Int, $b: Int) on User { f(a: $a, b: $b) }
	`)
	res := binding.NewResolver(doc)

	fingerprints := map[string]string{}
	res.Walk(doc.Operations[0], func(site binding.Site) {
		fingerprints[site.Fragment.Name] = binding.Fingerprint(site.Bindings)
	})
	require.Equal(t, "(a: 1, b: 2)", fingerprints["P"])
	require.Equal(t, fingerprints["P"], fingerprints["Q"])
}

func TestEqual(t *testing.T) {
	doc := mustParse(t, `
		query Q($v: Int) { me { ...A(x: $v) ...B(x: $v) ...C(x: 1) } }
		fragment A($x: Int) on User { f(x: $x) }
		fragment B($x: Int) on User { f(x: $x) }
		fragment C($x: Int) on User { f(x: $x) }
	`)
	res := binding.NewResolver(doc)

	byName := map[string]binding.Bindings{}
	res.Walk(doc.Operations[0], func(site binding.Site) {
		byName[site.Fragment.Name] = site.Bindings
	})
	require.True(t, binding.Equal(byName["A"], byName["B"]))
	require.False(t, binding.Equal(byName["A"], byName["C"]))
	require.False(t, binding.Equal(byName["A"], nil))
}
