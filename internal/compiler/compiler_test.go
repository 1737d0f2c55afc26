package compiler_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	binding "github.com/mjmahone/fragc/internal/binding"
	compiler "github.com/mjmahone/fragc/internal/compiler"
	eventbus "github.com/mjmahone/fragc/internal/eventbus"
	events "github.com/mjmahone/fragc/internal/events"
	validation "github.com/mjmahone/fragc/internal/validation"
)

func TestCompilePlainDocument(t *testing.T) {
	res, err := compiler.CompileSource(context.Background(), "plain.graphql", `
		query { me { ...Names } }
		fragment Names on User { first last }
	`)
	require.NoError(t, err)
	require.Empty(t, res.Resolved)
	require.Contains(t, res.Rendered, "fragment Names on User")
}

func TestCompileRewritesFragmentArguments(t *testing.T) {
	res, err := compiler.CompileSource(context.Background(), "profile.graphql", `
		query Profile {
			me {
				...UserProfile(imageSize: 100)
			}
		}
		fragment UserProfile($imageSize: Int!) on User {
			avatar(size: $imageSize)
		}
	`)
	require.NoError(t, err)

	want := "query Profile {\n" +
		"  me {\n" +
		"    ...UserProfile\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"fragment UserProfile on User {\n" +
		"  avatar(size: 100)\n" +
		"}\n"
	if diff := cmp.Diff(want, res.Rendered); diff != "" {
		t.Fatalf("rendered output mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "(imageSize: 100)", binding.Fingerprint(res.Resolved["UserProfile"]))
}

func TestCompileRejectsViolations(t *testing.T) {
	for _, tc := range []struct {
		name   string
		source string
		kind   validation.Kind
	}{
		{
			name: "unused argument",
			source: `
				query { me { ...Foo(x: 1) } }
				fragment Foo($x: Int) on User { name }
			`,
			kind: validation.UnusedFragmentArgument,
		},
		{
			name: "missing required argument",
			source: `
				query { me { ...Bar } }
				fragment Bar($x: Int!) on User { number(x: $x) }
			`,
			kind: validation.MissingRequiredFragmentArgument,
		},
		{
			name: "conflicting values",
			source: `
				query {
					small: me { ...Pic(size: 100) }
					large: me { ...Pic(size: 200) }
				}
				fragment Pic($size: Int!) on User { avatar(size: $size) }
			`,
			kind: validation.ConflictingFragmentArguments,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := compiler.CompileSource(context.Background(), "bad.graphql", tc.source)
			require.Nil(t, res)
			var verr validation.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr, 1)
			require.Equal(t, tc.kind, verr[0].Kind)
		})
	}
}

func TestCompileParseError(t *testing.T) {
	res, err := compiler.CompileSource(context.Background(), "broken.graphql", `query { me { ...`)
	require.Nil(t, res)
	require.Error(t, err)
}

func TestCompilePublishesEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)

	var starts []events.CompileStart
	var finishes []events.CompileFinish
	cancelStart := eventbus.Subscribe(func(_ context.Context, e events.CompileStart) {
		starts = append(starts, e)
	})
	defer cancelStart()
	cancelFinish := eventbus.Subscribe(func(_ context.Context, e events.CompileFinish) {
		finishes = append(finishes, e)
	})
	defer cancelFinish()

	_, err := compiler.CompileSource(context.Background(), "ok.graphql", `
		query { me { ...Pic(size: 1) } }
		fragment Pic($size: Int!) on User { avatar(size: $size) }
	`)
	require.NoError(t, err)

	_, err = compiler.CompileSource(context.Background(), "bad.graphql", `
		query { me { ...Pic(size: 1) } }
		fragment Pic($size: Int!) on User { name }
	`)
	require.Error(t, err)

	require.Len(t, starts, 2)
	require.Equal(t, "ok.graphql", starts[0].Name)
	require.Len(t, finishes, 2)
	require.NoError(t, finishes[0].Err)
	require.Equal(t, 1, finishes[0].Operations)
	require.Equal(t, 1, finishes[0].Fragments)
	require.Error(t, finishes[1].Err)
	require.Equal(t, 1, finishes[1].Violations)
}
