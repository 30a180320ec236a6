package catalog

type Stats struct {
	Types int

	DataSize  int64
	DataAlloc int64
	IndexSize int64

	// FileSize is the size of the database file, 0 for in-memory catalogs.
	FileSize int64
}

func (c *Catalog) Stats() (Stats, error) {
	var result Stats
	err := c.read(func(tx storageTx) error {
		bs := tx.Bucket(typesBucket).Stats()
		result.Types = bs.KeyN
		result.DataSize = bs.LeafInuse
		result.DataAlloc = bs.TotalAlloc()
		result.IndexSize = tx.Bucket(fingerprintsBucket).Stats().LeafInuse
		result.FileSize = tx.Size()
		return nil
	})
	return result, err
}
