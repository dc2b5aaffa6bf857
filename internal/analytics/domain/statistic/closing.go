package statistic

// SelfExportCloser resolves the bucket-level self export figures.
type SelfExportCloser interface {
	// SelfExportRevenue monetizes the net self surplus of a bucket.
	SelfExportRevenue(net float64) float64
	// OverflowSurcharge is added to self import cost when self import exceeds self export.
	OverflowSurcharge(importSelf, exportSelf float64) float64
}

// CloseSelfExport returns copies of the buckets with export_revenue_self set
// from the net self export and the overflow surcharge added to
// import_cost_self. It must run on day or coarser buckets, exactly once.
func CloseSelfExport(buckets []Row, closer SelfExportCloser) []Row {
	out := make([]Row, len(buckets))
	for i, bucket := range buckets {
		bucket.ExportRevenueSelf = closer.SelfExportRevenue(bucket.NetSelfExport())
		bucket.ImportCostSelf += closer.OverflowSurcharge(bucket.ImportSelf, bucket.ExportSelf)
		out[i] = bucket
	}
	return out
}
