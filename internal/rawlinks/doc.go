// Package rawlinks rewrites repository-relative image references in Markdown
// documents into absolute raw.githubusercontent.com URLs.
//
// Markdown inline images are located lexically, including alt text with one
// level of nested brackets and destinations with one level of balanced
// parentheses. Reference-style images (full, collapsed and shortcut) are
// rewritten at their link reference definition, and only when an image uses
// that label. HTML <img> tags are located inside the raw HTML regions Goldmark
// reports. Code blocks, code spans and HTML comments are never modified. Only
// destination byte ranges change; every other byte of the document is copied
// through verbatim.
//
// Deeper bracket or parenthesis nesting is not recognised and is left as is.
package rawlinks
