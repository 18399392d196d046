// Package streamer serves audio objects from an object store over HTTP with
// byte-range support.
//
// A Streamer turns a request for an object key and an optional Range header
// into a response a player can seek in: the whole object with 200, the
// requested part with 206 and a Content-Range header, or a classified error.
// The object store sits behind streamtypes.Store so S3, MinIO and an
// in-memory backend can be swapped without touching the pipeline.
//
// Example usage:
//
//	store, err := s3.New(ctx, s3.WithRegion("us-west-1"))
//	if err != nil {
//	    return err
//	}
//
//	st, err := streamer.New(store,
//	    streamer.WithBucket("music"),
//	    streamer.WithStoreTimeout(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := st.Stream(ctx, "albums/song.mp3", "bytes=0-1023")
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
package streamer
