// Package manifest reads composition manifests and resolves their services
// to local component directories.
//
// Both manifest layouts are accepted:
//
//	# single deployment
//	services:
//	  mysql:
//	    charm: cs:trusty/mysql
//
//	# named deployments
//	blog:
//	  services:
//	    mysql:
//	      charm: local:trusty/mysql
//
// Services keep their declaration order. A reference is resolved as a path
// when it starts with "/", "./" or "../" (relative to the manifest), as
// <repository>/<series>/<name> for local: references, and otherwise by its
// bare name under the repository or <manifest dir>/charms.
package manifest
