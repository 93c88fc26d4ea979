package tour

// AssetURLs enumerates every downloadable URL reachable from the record: the
// tour thumbnail, each object's thumbnail, each asset's media files and each
// task's images. The result is deduplicated and order-stable; missing optional
// fields are skipped.
func (r *Record) AssetURLs() []string {
	seen := make(map[string]struct{})
	urls := make([]string, 0, len(r.Objects))

	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	add(r.ThumbnailURL)

	for _, obj := range r.Objects {
		add(obj.ThumbnailURL)

		for _, a := range obj.Assets {
			add(a.ModelURL)
			for _, m := range a.MaterialURLs {
				add(m)
			}
			add(a.ThumbnailURL)
			add(a.MarkerURL)
			add(a.AudioURL)
			add(a.VideoURL)
		}

		for _, t := range obj.Tasks {
			add(t.ThumbnailURL)
			add(t.DetailImageURL)
		}
	}

	return urls
}
