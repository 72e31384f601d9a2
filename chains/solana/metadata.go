package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// MetadataProgramID is the Metaplex token metadata program
var MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// token metadata instruction discriminators
const (
	approveCollectionAuthorityIx = 23
	revokeCollectionAuthorityIx  = 24
)

// FindMetadataAddress derives the metadata account of a mint
func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			MetadataProgramID.Bytes(),
			mint.Bytes(),
		},
		MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}

// FindCollectionAuthorityRecord derives the record that grants authority
// over a collection mint to a delegate.
func FindCollectionAuthorityRecord(mint, authority solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			MetadataProgramID.Bytes(),
			mint.Bytes(),
			[]byte("collection_authority"),
			authority.Bytes(),
		},
		MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive collection authority record: %w", err)
	}
	return addr, nil
}

// ApproveCollectionAuthorityInstruction lets delegate verify items into the
// collection. The update authority signs and pays for the record.
func ApproveCollectionAuthorityInstruction(collectionMint, delegate, updateAuthority solana.PublicKey) (solana.Instruction, error) {
	record, err := FindCollectionAuthorityRecord(collectionMint, delegate)
	if err != nil {
		return nil, err
	}
	metadata, err := FindMetadataAddress(collectionMint)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(record, true, false),
		solana.NewAccountMeta(delegate, false, false),
		solana.NewAccountMeta(updateAuthority, true, true),
		solana.NewAccountMeta(updateAuthority, true, true),
		solana.NewAccountMeta(metadata, false, false),
		solana.NewAccountMeta(collectionMint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(MetadataProgramID, accounts, []byte{approveCollectionAuthorityIx}), nil
}

// RevokeCollectionAuthorityInstruction closes the authority record of delegate
func RevokeCollectionAuthorityInstruction(collectionMint, delegate, revokeAuthority solana.PublicKey) (solana.Instruction, error) {
	record, err := FindCollectionAuthorityRecord(collectionMint, delegate)
	if err != nil {
		return nil, err
	}
	metadata, err := FindMetadataAddress(collectionMint)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(record, true, false),
		solana.NewAccountMeta(delegate, true, false),
		solana.NewAccountMeta(revokeAuthority, true, true),
		solana.NewAccountMeta(metadata, false, false),
		solana.NewAccountMeta(collectionMint, false, false),
	}
	return solana.NewInstruction(MetadataProgramID, accounts, []byte{revokeCollectionAuthorityIx}), nil
}
