// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"sync"

	"github.com/dgraph-io/badger/v2"

	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/chaincfg/chainhash"
)

// sigCacheEntry represents an entry in the SigCache. Entries are keyed on
// the sig hash, pubkey, and signature.
type sigCacheEntry struct {
	sig    *btcec.Signature
	pubKey *btcec.PublicKey
}

// SigCache memoizes the results of signature verification so that scripts
// which are re-validated from multiple contexts (mempool acceptance, block
// template assembly, full block validation) don't have to pay for the same
// elliptic-curve point multiplication more than once.
//
// An in-memory map backs lookups within the lifetime of a process; a badger
// key/value store persists the same verified triples across process
// restarts so a freshly started node doesn't cold-start its cache.
type SigCache struct {
	sync.RWMutex
	validSigs map[chainhash.Hash]sigCacheEntry
	maxEntries uint

	db *badger.DB
}

// NewSigCache creates and initializes a new instance of SigCache with the
// given maximum number of in-memory entries. When dbPath is non-empty, a
// badger store at that path backs the cache across restarts; an empty
// dbPath yields a purely in-memory cache.
func NewSigCache(maxEntries uint, dbPath string) (*SigCache, error) {
	cache := &SigCache{
		validSigs:  make(map[chainhash.Hash]sigCacheEntry, maxEntries),
		maxEntries: maxEntries,
	}

	if dbPath == "" {
		return cache, nil
	}

	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	cache.db = db
	return cache, nil
}

// Close releases the resources held by the cache's backing store, if any.
func (s *SigCache) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// cacheKey returns the badger key for a given signature hash.
func cacheKey(sigHash chainhash.Hash) []byte {
	key := make([]byte, chainhash.HashSize)
	copy(key, sigHash[:])
	return key
}

// Exists returns true if the passed (sigHash, signature, pubKey) triple
// already exists in the cache, checking the in-memory map first and falling
// back to the persistent store.
func (s *SigCache) Exists(sigHash chainhash.Hash, sig *btcec.Signature, pubKey *btcec.PublicKey) bool {
	s.RLock()
	entry, ok := s.validSigs[sigHash]
	s.RUnlock()
	if ok {
		return sigsEqual(entry.sig, sig) && pubKeysEqual(entry.pubKey, pubKey)
	}

	if s.db == nil {
		return false
	}

	var found bool
	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(sigHash))
		if err != nil {
			return nil
		}
		return item.Value(func(val []byte) error {
			want := append(sig.Serialize(), pubKey.SerializeCompressed()...)
			found = len(val) == len(want) && string(val) == string(want)
			return nil
		})
	})

	if found {
		s.Lock()
		s.validSigs[sigHash] = sigCacheEntry{sig: sig, pubKey: pubKey}
		s.Unlock()
	}
	return found
}

// Add adds an entry for a given (sigHash, signature, pubKey) triple,
// evicting a random entry if the in-memory cache has reached its configured
// maximum, and persists the triple to the backing store if one is
// configured.
func (s *SigCache) Add(sigHash chainhash.Hash, sig *btcec.Signature, pubKey *btcec.PublicKey) {
	s.Lock()
	if s.maxEntries > 0 && uint(len(s.validSigs)) >= s.maxEntries {
		for k := range s.validSigs {
			delete(s.validSigs, k)
			break
		}
	}
	s.validSigs[sigHash] = sigCacheEntry{sig: sig, pubKey: pubKey}
	s.Unlock()

	if s.db == nil {
		return
	}
	val := append(sig.Serialize(), pubKey.SerializeCompressed()...)
	_ = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(sigHash), val)
	})
}

func sigsEqual(a, b *btcec.Signature) bool {
	return string(a.Serialize()) == string(b.Serialize())
}

func pubKeysEqual(a, b *btcec.PublicKey) bool {
	return string(a.SerializeCompressed()) == string(b.SerializeCompressed())
}
