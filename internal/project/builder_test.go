package project

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/vcdb/internal/fsutil"
	"github.com/vk/vcdb/internal/macro"
	"github.com/vk/vcdb/internal/metadata"
	"github.com/vk/vcdb/internal/xmltree"
)

const testProjectDir = "/work/proj"

// buildFromXML runs the builder over an inline project document.
func buildFromXML(t *testing.T, doc string, seed map[string]string) ([]*Item, *macro.Table, error) {
	t.Helper()

	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	table := macro.New()
	for name, value := range seed {
		table.Set(name, value)
	}

	fs := &fsutil.Fake{Paths: map[string]string{
		filepath.Join(testProjectDir, "main.cpp"): "2026-01-02 03:04:05",
		filepath.Join(testProjectDir, "util.cpp"): "2026-01-02 03:04:05",
	}}
	builder := NewBuilder(metadata.NewProvider(fs))
	return builder.Build(context.Background(), root, testProjectDir, table)
}

func TestBuild_InlineOverridePrependsInheritedList(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup>
	    <ClCompile><Includes>a</Includes></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="f.c">
	      <Includes>b;%(Includes)</Includes>
	    </ClCompile>
	    <ClCompile Include="g.c" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	got, ok := items[0].Property("Includes")
	require.True(t, ok)
	assert.Equal(t, "b;a", got)

	// The sibling without an override keeps the plain default.
	got, ok = items[1].Property("Includes")
	require.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestBuild_DefinitionBlocksReplaceNotMerge(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup>
	    <ClCompile>
	      <Old>kept-nowhere</Old>
	      <Shared>first</Shared>
	    </ClCompile>
	  </ItemDefinitionGroup>
	  <ItemDefinitionGroup>
	    <ClCompile><Shared>second</Shared></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, ok := items[0].Property("Old")
	assert.False(t, ok, "first block's properties must be gone entirely")

	got, _ := items[0].Property("Shared")
	assert.Equal(t, "second", got)
}

func TestBuild_SelfReferenceInDefinitionResolvesEmpty(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup>
	    <ClCompile><P>inc1;%(P)</P></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)

	got, _ := items[0].Property("P")
	assert.Equal(t, "inc1", got)
}

func TestBuild_CopyOnWriteIsolatesSiblings(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup>
	    <ClCompile><Opt>base</Opt></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp">
	      <Opt>special</Opt>
	    </ClCompile>
	    <ClCompile Include="util.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	got, _ := items[0].Property("Opt")
	assert.Equal(t, "special", got)
	got, _ = items[1].Property("Opt")
	assert.Equal(t, "base", got)
}

func TestBuild_HeaderItemsInheritCompileDefaults(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup>
	    <ClCompile><Opt>w4</Opt></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClInclude Include="main.h" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "ClInclude", items[0].Type)
	got, ok := items[0].Property("Opt")
	require.True(t, ok)
	assert.Equal(t, "w4", got)
}

func TestBuild_LabeledItemGroupIsSkipped(t *testing.T) {
	doc := `<Project>
	  <ItemGroup Label="ProjectConfigurations">
	    <ClCompile Include="not-an-item.cpp" />
	  </ItemGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "main.cpp", items[0].Include)
}

func TestBuild_ConditionsUseMacrosAsOfTheWalkPosition(t *testing.T) {
	doc := `<Project>
	  <PropertyGroup>
	    <Mode>early</Mode>
	  </PropertyGroup>
	  <PropertyGroup Condition="'$(Mode)'=='early'">
	    <Flag>on</Flag>
	  </PropertyGroup>
	  <PropertyGroup>
	    <Mode>late</Mode>
	  </PropertyGroup>
	  <PropertyGroup Condition="'$(Mode)'=='early'">
	    <LateFlag>on</LateFlag>
	  </PropertyGroup>
	</Project>`

	_, macros, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)

	// The first conditional group saw Mode=early and applied.
	got, ok := macros.Get("Flag")
	require.True(t, ok)
	assert.Equal(t, "on", got)

	// After the rebinding, the same condition no longer holds.
	_, ok = macros.Get("LateFlag")
	assert.False(t, ok)

	got, _ = macros.Get("Mode")
	assert.Equal(t, "late", got)
}

func TestBuild_ConditionalDefinitionGroupGatesDefaults(t *testing.T) {
	doc := `<Project>
	  <ItemDefinitionGroup Condition="'$(Configuration)'=='Debug'">
	    <ClCompile><Defines>DEBUG</Defines></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemDefinitionGroup Condition="'$(Configuration)'=='Release'">
	    <ClCompile><Defines>NDEBUG</Defines></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, map[string]string{"Configuration": "Debug"})
	require.NoError(t, err)

	got, _ := items[0].Property("Defines")
	assert.Equal(t, "DEBUG", got)
}

func TestBuild_IdentityAndPropertiesFullyResolved(t *testing.T) {
	doc := `<Project>
	  <PropertyGroup>
	    <OutDir>bin/</OutDir>
	  </PropertyGroup>
	  <ItemDefinitionGroup>
	    <ClCompile><ObjectFile>$(OutDir)%(Filename).obj</ObjectFile></ClCompile>
	  </ItemDefinitionGroup>
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, testProjectDir, item.ProjectDir)

	// Metadata expands first, macros second; nothing unresolved survives.
	got, _ := item.Property("ObjectFile")
	assert.Equal(t, "bin/main.obj", got)
	for name, value := range item.Properties() {
		assert.NotContains(t, value, "$(", "property %s", name)
		assert.NotContains(t, value, "%(", "property %s", name)
	}
}

func TestBuild_MacroInIdentity(t *testing.T) {
	doc := `<Project>
	  <ItemGroup>
	    <ClCompile Include="$(ProjectName).cpp" />
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, map[string]string{"ProjectName": "main"})
	require.NoError(t, err)
	assert.Equal(t, "main.cpp", items[0].Include)
}

func TestBuild_EmptyListElementsDropped(t *testing.T) {
	doc := `<Project>
	  <ItemGroup>
	    <ClCompile Include="main.cpp">
	      <Includes>a; ;b;;%(Includes)</Includes>
	    </ClCompile>
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)

	got, _ := items[0].Property("Includes")
	assert.Equal(t, "a;b", got)
}

func TestBuild_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "undefined macro in property",
			doc: `<Project>
			  <ItemGroup>
			    <ClCompile Include="main.cpp"><X>$(Nope)</X></ClCompile>
			  </ItemGroup>
			</Project>`,
			want: "Nope",
		},
		{
			name: "undefined macro in identity",
			doc: `<Project>
			  <ItemGroup><ClCompile Include="$(Nope).cpp" /></ItemGroup>
			</Project>`,
			want: "Nope",
		},
		{
			name: "unknown metadata name",
			doc: `<Project>
			  <ItemGroup>
			    <ClCompile Include="main.cpp"><X>%(Bogus)</X></ClCompile>
			  </ItemGroup>
			</Project>`,
			want: "Bogus",
		},
		{
			name: "unterminated token in property",
			doc: `<Project>
			  <ItemGroup>
			    <ClCompile Include="main.cpp"><X>$(Open</X></ClCompile>
			  </ItemGroup>
			</Project>`,
			want: "unterminated",
		},
		{
			name: "unsupported condition",
			doc: `<Project>
			  <PropertyGroup Condition="exists('x')"><A>1</A></PropertyGroup>
			</Project>`,
			want: "unsupported condition",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := buildFromXML(t, tc.doc, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBuild_IgnoresUnmeaningfulNodes(t *testing.T) {
	doc := `<Project>
	  <Import Project="other.props" />
	  <Target Name="Build" />
	  <ItemGroup>
	    <ClCompile Include="main.cpp" />
	    <None Include="readme.txt" />
	    <Filter>no-include-attr</Filter>
	  </ItemGroup>
	</Project>`

	items, _, err := buildFromXML(t, doc, nil)
	require.NoError(t, err)

	// Any item type with an Include is permitted; filtering happens at emit.
	require.Len(t, items, 2)
	assert.Equal(t, "ClCompile", items[0].Type)
	assert.Equal(t, "None", items[1].Type)
}
