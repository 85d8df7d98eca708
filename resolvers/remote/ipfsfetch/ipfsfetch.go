// Package ipfsfetch fetches manifest/module pairs out of a UnixFS
// directory stored on IPFS, composing go-cid, go-ipfs-blockstore,
// go-blockservice, go-merkledag and go-unixfs the way
// registry/storage/driver/ipfs's driver.go wires the same family of
// packages together, minus the libp2p/DHT networking layer that
// driver pulls in transitively — this fetcher is handed a
// already-connected blockservice.BlockService (local blockstore, or
// one backed by a bitswap exchange) rather than standing up its own
// node.
package ipfsfetch

import (
	"context"
	"fmt"
	"io"

	blockservice "github.com/ipfs/go-blockservice"
	cid "github.com/ipfs/go-cid"
	datastore "github.com/ipfs/go-datastore"
	blockstore "github.com/ipfs/go-ipfs-blockstore"
	ipld "github.com/ipfs/go-ipld-format"
	merkledag "github.com/ipfs/go-merkledag"
	uio "github.com/ipfs/go-unixfs/io"
	multihash "github.com/multiformats/go-multihash"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
)

// RootResolver maps a wrap.Uri onto the root CID of the UnixFS
// directory that holds its manifest.yaml/module.wasm pair — the
// naming scheme (authority/path to CID) is left to the caller, since
// the core treats it as configuration, not a protocol this package
// should own.
type RootResolver func(uri wrap.Uri) (cid.Cid, error)

// Fetcher reads "manifest.yaml" and "module.wasm" UnixFS directory
// entries out of the directory rooted at RootResolver(uri).
type Fetcher struct {
	dag  ipld.DAGService
	root RootResolver
}

var _ remote.Fetcher = (*Fetcher)(nil)

// New returns a Fetcher backed by bs (a go-blockservice.BlockService
// wrapping whatever go-ipfs-blockstore.Blockstore and exchange the
// caller has configured) and root, the uri->CID naming function.
func New(bs blockservice.BlockService, root RootResolver) *Fetcher {
	return &Fetcher{dag: merkledag.NewDAGService(bs), root: root}
}

// NewLocal returns a Fetcher reading from a blockstore.Blockstore laid
// over ds with no network exchange (blockservice.New(bs, nil)) —
// suited to a resolver tree whose IPFS backend is really a local
// mirror populated out-of-band, mirroring how
// registry/storage/driver/ipfs layers its CRDT store over a plain
// go-datastore.Datastore.
func NewLocal(ds datastore.Batching, root RootResolver) *Fetcher {
	bs := blockservice.New(blockstore.NewBlockstore(ds), nil)
	return New(bs, root)
}

// ParseCidRoot is a RootResolver that treats uri.Path() as the
// string-encoded CID of the manifest/module directory directly
// (e.g. "wrap://ipfs/bafy...").
func ParseCidRoot(uri wrap.Uri) (cid.Cid, error) {
	c, err := cid.Decode(uri.Path())
	if err != nil {
		return cid.Cid{}, wrap.ResolutionError{SourceUri: uri, Message: "ipfsfetch: path is not a valid cid", Cause: err}
	}
	return c, nil
}

// DigestRoot builds a CIDv1 (raw codec, sha2-256) over the bytes
// comprising uri's canonical string form, for deployments that want
// a deterministic IPFS root derived from the wrap uri itself rather
// than requiring the path segment to already be a CID.
func DigestRoot(uri wrap.Uri) (cid.Cid, error) {
	mh, err := multihash.Sum([]byte(uri.String()), multihash.SHA2_256, -1)
	if err != nil {
		return cid.Cid{}, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// Fetch implements remote.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, uri wrap.Uri) ([]byte, []byte, error) {
	rootCid, err := f.root(uri)
	if err != nil {
		return nil, nil, err
	}

	var rootNode ipld.Node
	rootNode, err = f.dag.Get(ctx, rootCid)
	if err != nil {
		return nil, nil, translateErr(err)
	}

	dir, err := uio.NewDirectoryFromNode(f.dag, rootNode)
	if err != nil {
		return nil, nil, wrap.ResolutionError{SourceUri: uri, Message: "ipfsfetch: root is not a unixfs directory", Cause: err}
	}

	manifestBytes, err := f.readFile(ctx, dir, "manifest.yaml")
	if err != nil {
		return nil, nil, err
	}
	moduleBytes, err := f.readFile(ctx, dir, "module.wasm")
	if err != nil {
		return nil, nil, err
	}

	return manifestBytes, moduleBytes, nil
}

func (f *Fetcher) readFile(ctx context.Context, dir uio.Directory, name string) ([]byte, error) {
	var node ipld.Node
	node, err := dir.Find(ctx, name)
	if err != nil {
		if err == merkledag.ErrLinkNotFound {
			return nil, remote.ErrObjectNotFound
		}
		return nil, translateErr(err)
	}

	reader, err := uio.NewDagReader(ctx, node, f.dag)
	if err != nil {
		return nil, fmt.Errorf("ipfsfetch: %s is not a unixfs file: %w", name, err)
	}

	return io.ReadAll(reader)
}

// translateErr maps the family of "no such node" errors the
// go-ipld-format/go-merkledag/go-unixfs stack can return into
// remote.ErrObjectNotFound, the only not-found signal
// resolvers/remote.Resolver understands.
func translateErr(err error) error {
	if err == ipld.ErrNotFound {
		return remote.ErrObjectNotFound
	}
	return err
}
