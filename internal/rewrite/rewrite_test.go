package rewrite_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	binding "github.com/mjmahone/fragc/internal/binding"
	language "github.com/mjmahone/fragc/internal/language"
	rewrite "github.com/mjmahone/fragc/internal/rewrite"
)

func parse(t *testing.T, source string) *language.Document {
	t.Helper()
	doc, err := language.ParseQuery(source)
	require.NoError(t, err)
	return doc
}

func TestRewriteSubstitutesResolvedValues(t *testing.T) {
	doc := parse(t, `
		query Profile {
			me {
				...UserProfile(imageSize: 100)
			}
		}
		fragment UserProfile($imageSize: Int!) on User {
			avatar(size: $imageSize)
		}
	`)

	out, resolved := rewrite.Rewrite(doc)

	want := "query Profile {\n" +
		"  me {\n" +
		"    ...UserProfile\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"fragment UserProfile on User {\n" +
		"  avatar(size: 100)\n" +
		"}\n"
	if diff := cmp.Diff(want, language.Render(out)); diff != "" {
		t.Fatalf("rendered output mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, resolved, 1)
	require.Equal(t, "(imageSize: 100)", binding.Fingerprint(resolved["UserProfile"]))
}

func TestRewriteForwardsOperationVariables(t *testing.T) {
	doc := parse(t, `
		query Feed($rootSize: Int!) {
			me {
				...Pic(size: $rootSize)
			}
		}
		fragment Pic($size: Int!) on User {
			avatar(size: $size)
		}
	`)

	out, resolved := rewrite.Rewrite(doc)

	want := "query Feed($rootSize: Int!) {\n" +
		"  me {\n" +
		"    ...Pic\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"fragment Pic on User {\n" +
		"  avatar(size: $rootSize)\n" +
		"}\n"
	if diff := cmp.Diff(want, language.Render(out)); diff != "" {
		t.Fatalf("rendered output mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "(size: $rootSize)", binding.Fingerprint(resolved["Pic"]))
}

func TestRewriteResolvesThroughSpreadChains(t *testing.T) {
	doc := parse(t, `
		query {
			me {
				...Outer(n: 1)
			}
		}
		fragment Outer($n: Int!) on User {
			...Inner(m: $n)
		}
		fragment Inner($m: Int!) on User {
			number(m: $m) @skip(if: $m)
		}
	`)

	out, resolved := rewrite.Rewrite(doc)

	want := "{\n" +
		"  me {\n" +
		"    ...Outer\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"fragment Outer on User {\n" +
		"  ...Inner\n" +
		"}\n" +
		"\n" +
		"fragment Inner on User {\n" +
		"  number(m: 1) @skip(if: 1)\n" +
		"}\n"
	if diff := cmp.Diff(want, language.Render(out)); diff != "" {
		t.Fatalf("rendered output mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "(n: 1)", binding.Fingerprint(resolved["Outer"]))
	require.Equal(t, "(m: 1)", binding.Fingerprint(resolved["Inner"]))
}

func TestRewriteUnreachableFragmentsUseDefaults(t *testing.T) {
	doc := parse(t, `
		query { me { name } }
		fragment Spare($n: Int = 10, $tag: String) on User {
			items(first: $n, tag: $tag)
		}
	`)

	out, resolved := rewrite.Rewrite(doc)

	frag := out.Fragments.ForName("Spare")
	require.NotNil(t, frag)
	require.Empty(t, frag.ArgumentDefinitions)
	require.Contains(t, language.Render(out), "items(first: 10, tag: null)")
	require.Equal(t, "(n: 10, tag: null)", binding.Fingerprint(resolved["Spare"]))
}

func TestRewriteLeavesPlainDocumentsUnchanged(t *testing.T) {
	source := `
		query Q($size: Int!) @cached {
			me {
				avatar(size: $size)
				...Names
				... on Admin {
					role
				}
			}
		}
		fragment Names on User {
			first: name
			last
		}
	`
	doc := parse(t, source)
	before := language.Render(doc)

	out, resolved := rewrite.Rewrite(doc)

	require.Empty(t, resolved)
	if diff := cmp.Diff(before, language.Render(out)); diff != "" {
		t.Fatalf("plain document changed (-want +got):\n%s", diff)
	}
}

func TestRewriteDoesNotModifyInput(t *testing.T) {
	doc := parse(t, `
		query { me { ...Pic(size: 100) } }
		fragment Pic($size: Int!) on User { avatar(size: $size) }
	`)
	before := language.Render(doc)

	rewrite.Rewrite(doc)

	if diff := cmp.Diff(before, language.Render(doc)); diff != "" {
		t.Fatalf("input document modified (-want +got):\n%s", diff)
	}
}

func TestRewriteSubstitutesInsideCompositeValues(t *testing.T) {
	doc := parse(t, `
		query {
			me {
				...Filtered(limit: 3)
			}
		}
		fragment Filtered($limit: Int!) on User {
			results(filter: {limit: $limit, tags: [$limit, 1]})
		}
	`)

	out, _ := rewrite.Rewrite(doc)

	require.Contains(t, language.Render(out), "results(filter: {limit:3,tags:[3,1]})")
}
