package generate

// Package generate plans the fixture tree from configuration and drives the
// encoder over it.
//
// All random choices are made up front by Plan from a single seeded source,
// so the files produced for a seed do not depend on how many encoders run in
// parallel. Service.Run then walks the folders in pre-order, fanning out
// each folder's tracks to a bounded errgroup. A failed encode is logged and
// skipped; a failed cover leaves the plain track in place.
