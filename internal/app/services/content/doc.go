// Package content implements the publication workflow shared by blog posts
// and products.
//
// A Service is bound to one ContentKind. It resolves unique slugs, checks
// category references, sanitizes rich text, and refuses to publish an entity
// that fails publishcheck. Persistence goes through the Repository and
// CategoryLookup interfaces in repository.go; the MongoDB implementations live
// in store/content and store/categories.
//
// Every error returned is an *apperr.Error.
package content
