package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/svgg/internal/codec"
	"evalgo.org/svgg/internal/integrity"
)

// writeDriftedBundle writes a host document whose metadata counter
// disagrees with its single entry, and whose entry checksum is
// selectable so payload corruption can be simulated.
func writeDriftedBundle(t *testing.T, path, checksum string, filesCount int) {
	t.Helper()
	doc := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg">
<metadata id="svgg-container" xmlns:svgg="https://svgg.dev/ns">
  <svgg:meta>{"metadata":{"files_count":%d}}</svgg:meta>
  <svgg:file path="a.txt" media-type="text/plain" encoding="utf8-text" checksum="%s" raw-size="5" encoded-size="5" added-at="2026-01-02T03:04:05Z">alpha</svgg:file>
</metadata>
</svg>`, filesCount, checksum)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestAuditCleanContainers(t *testing.T) {
	svc, workDir := newTestService(t)
	one := newBundle(t, svc, workDir, "one.svg")
	two := newBundle(t, svc, workDir, "two.svg")
	importFiles(t, svc, one, memFile("a.txt", []byte("alpha")))
	importFiles(t, svc, two, memFile("b.txt", []byte("beta")))

	report := svc.Audit(context.Background(), []string{one, two})
	assert.Equal(t, 2, report.Containers)
	assert.Equal(t, 2, report.Entries)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 100, report.HealthScore)
}

func TestAuditReportsUnreadableContainers(t *testing.T) {
	svc, workDir := newTestService(t)
	good := newBundle(t, svc, workDir, "good.svg")
	missing := filepath.Join(workDir, "missing.svg")

	report := svc.Audit(context.Background(), []string{good, missing})
	assert.Equal(t, 1, report.Containers)
	assert.Contains(t, report.Errors, missing)
	assert.Less(t, report.HealthScore, 100)
}

func TestAuditDetectsCountDrift(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "drift.svg")
	writeDriftedBundle(t, bundle, codec.Checksum([]byte("alpha")), 9)

	report := svc.Audit(context.Background(), []string{bundle})
	require.Len(t, report.Issues, 1)
	assert.Equal(t, integrity.IssueCountDrift, report.Issues[0].Type)
}

// writeStructureDriftedBundle writes a host document whose recorded
// tree names an entry the container does not hold.
func writeStructureDriftedBundle(t *testing.T, path string) {
	t.Helper()
	meta := `{"metadata":{"files_count":1},"structure":{"name":"","kind":"directory","children":[{"name":"a.txt","kind":"file","size":5},{"name":"ghost.txt","kind":"file"}]}}`
	doc := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg">
<metadata id="svgg-container" xmlns:svgg="https://svgg.dev/ns">
  <svgg:meta>%s</svgg:meta>
  <svgg:file path="a.txt" media-type="text/plain" encoding="utf8-text" checksum="%s" raw-size="5" encoded-size="5" added-at="2026-01-02T03:04:05Z">alpha</svgg:file>
</metadata>
</svg>`, meta, codec.Checksum([]byte("alpha")))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestAuditDetectsStructureDriftOnDisk(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "treedrift.svg")
	writeStructureDriftedBundle(t, bundle)

	report := svc.Audit(context.Background(), []string{bundle})
	require.Empty(t, report.Errors)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, integrity.IssueStructureDrift, report.Issues[0].Type)
	assert.True(t, report.Issues[0].Repairable)
}

func TestRepairRebuildsDriftedTree(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "treefix.svg")
	writeStructureDriftedBundle(t, bundle)

	actions, err := svc.Repair(bundle, integrity.RepairOptions{})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].Applied)

	report := svc.Audit(context.Background(), []string{bundle})
	assert.Empty(t, report.Issues)
	assert.Equal(t, 100, report.HealthScore)
}

func TestRepairPersistsFixedCounters(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "fix.svg")
	writeDriftedBundle(t, bundle, codec.Checksum([]byte("alpha")), 9)

	actions, err := svc.Repair(bundle, integrity.RepairOptions{})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].Applied)

	report := svc.Audit(context.Background(), []string{bundle})
	assert.Empty(t, report.Issues)

	meta, err := svc.Metadata(bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.FilesCount())
}

func TestRepairDryRunDoesNotWrite(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "plan.svg")
	writeDriftedBundle(t, bundle, codec.Checksum([]byte("alpha")), 9)
	before := readBundle(t, bundle)

	actions, err := svc.Repair(bundle, integrity.RepairOptions{DryRun: true})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.False(t, actions[0].Applied)
	assert.Equal(t, before, readBundle(t, bundle))
}

func TestRepairForceRemovesCorruptEntries(t *testing.T) {
	svc, workDir := newTestService(t)
	bundle := filepath.Join(workDir, "corrupt.svg")
	writeDriftedBundle(t, bundle, strings.Repeat("0", 64), 1)

	// Without force the corrupt entry stays.
	actions, err := svc.Repair(bundle, integrity.RepairOptions{})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.False(t, actions[0].Applied)

	actions, err = svc.Repair(bundle, integrity.RepairOptions{Force: true})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].Applied)

	infos, err := svc.List(bundle, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, infos)

	report := svc.Audit(context.Background(), []string{bundle})
	assert.Empty(t, report.Issues)
	assert.Equal(t, 100, report.HealthScore)
}
