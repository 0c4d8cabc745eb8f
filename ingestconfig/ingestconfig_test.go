package ingestconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acdh-oeaw/arche-ingest/filetask"
	"github.com/acdh-oeaw/arche-ingest/graphingest"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/skosingest"
)

func TestFileIngestConfigCompiles(t *testing.T) {
	c := FileIngestConfig{
		Directory:      "/data",
		FilterMatch:    `\.txt$`,
		SkipExist:      true,
		SkipNotExist:   true,
		VersioningMode: "digest",
	}
	cfg, err := c.ToIngesterConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.Directory)
	assert.True(t, cfg.SkipMask.Has(filetask.SkipExist))
	assert.True(t, cfg.SkipMask.Has(filetask.SkipNotExist))
	assert.Equal(t, filetask.VersioningDigest, cfg.VersioningMode)
	require.NotNil(t, cfg.FilterMatch)
	assert.True(t, cfg.FilterMatch.MatchString("a.txt"))
}

func TestFileIngestConfigRejectsBadRegex(t *testing.T) {
	c := FileIngestConfig{FilterMatch: "("}
	_, err := c.ToIngesterConfig()
	assert.Error(t, err)
}

func TestFileIngestConfigRejectsUnknownVersioningMode(t *testing.T) {
	c := FileIngestConfig{VersioningMode: "bogus"}
	_, err := c.ToIngesterConfig()
	assert.Error(t, err)
}

func TestGraphIngestConfigSingleOutNamespace(t *testing.T) {
	c := GraphIngestConfig{Namespace: "https://id.example/", ErrorMode: "pass"}
	cfg, err := c.ToIngesterConfig()
	require.NoError(t, err)
	assert.Equal(t, graphingest.SingleOutNmspSkip, cfg.SingleOutNmsp)
	assert.Equal(t, ingesterrors.ErrModePass, cfg.ErrorMode)

	c.IncludeSingleOut = true
	cfg, err = c.ToIngesterConfig()
	require.NoError(t, err)
	assert.Equal(t, graphingest.SingleOutNmspInclude, cfg.SingleOutNmsp)
}

func TestSkosIngestConfigRejectsMergeOnRelationMode(t *testing.T) {
	c := SkosIngestConfig{RelationMode: "merge"}
	_, err := c.ToIngesterConfig()
	assert.Error(t, err)
}

func TestSkosIngestConfigAllowsMergeOnExactMatch(t *testing.T) {
	c := SkosIngestConfig{
		VocabularyURL:          "https://vocabs.acdh.oeaw.ac.at/testvoc/",
		ExactMatchInVocabulary: "merge",
	}
	cfg, err := c.ToIngesterConfig()
	require.NoError(t, err)
	assert.Equal(t, skosingest.ModeMerge, cfg.ExactMatchInVocabulary)
}
