// Package classfile reads just enough of the JVM class file format (JVMS
// §4) to answer one question: does a given method's Code attribute carry
// any bytecode at all? It implements oracle.ClassFileReader so §6's target-
// method verification can walk the emitted class files after compilation,
// the way a JVM classloader would, rather than trusting the pre-compile
// AST's Keep flag. Constant-pool and method/attribute layout follow the
// structures the corpus's own classloader (artipop/jacobin's
// classloader.ParsedClass) uses to describe a parsed class, adapted here
// to a single streaming pass instead of a fully materialized class model —
// this reader only needs one method's Code attribute, never the whole
// class.
package classfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/jesslang/jess/pkg/oracle"
)

const magic = 0xCAFEBABE

// constant pool tags, JVMS §4.4.
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Reader implements oracle.ClassFileReader by parsing the .class file
// bytes directly.
type Reader struct{}

var _ oracle.ClassFileReader = Reader{}

// MethodHasCode reports whether methodName/descriptor's Code attribute in
// classFile has a non-zero length bytecode array. A method absent from
// the class file entirely reports false with no error: that is itself the
// "never emitted" case §6 asks this oracle to detect. An error return means
// classFile could not be read or parsed at all.
func (Reader) MethodHasCode(classFile, methodName, descriptor string) (bool, error) {
	data, err := os.ReadFile(classFile)
	if err != nil {
		return false, fmt.Errorf("classfile: %w", err)
	}
	return methodHasCode(data, methodName, descriptor)
}

// cursor walks a class file's bytes, JVMS §4.1's linear layout.
type cursor struct {
	b   []byte
	pos int
}

func (c *cursor) u1() (byte, error) {
	if c.pos+1 > len(c.b) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", c.pos)
	}
	v := c.b[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.pos+2 > len(c.b) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", c.pos)
	}
	v := binary.BigEndian.Uint16(c.b[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u4() (uint32, error) {
	if c.pos+4 > len(c.b) {
		return 0, fmt.Errorf("unexpected end of class file at offset %d", c.pos)
	}
	v := binary.BigEndian.Uint32(c.b[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) skip(n int) error {
	if c.pos+n > len(c.b) {
		return fmt.Errorf("unexpected end of class file at offset %d", c.pos)
	}
	c.pos += n
	return nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.pos+n > len(c.b) {
		return nil, fmt.Errorf("unexpected end of class file at offset %d", c.pos)
	}
	v := c.b[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// methodHasCode does the actual parsing: header, constant pool (UTF8
// entries only, everything else just consumed for its fixed/variable
// width), fields (skipped), then each method's name/descriptor checked
// against the target and its Code attribute's code_length inspected.
func methodHasCode(data []byte, methodName, descriptor string) (bool, error) {
	c := &cursor{b: data}

	got, err := c.u4()
	if err != nil {
		return false, err
	}
	if got != magic {
		return false, fmt.Errorf("not a class file: bad magic %#x", got)
	}
	if err := c.skip(4); err != nil { // minor_version, major_version
		return false, err
	}

	cpCount, err := c.u2()
	if err != nil {
		return false, err
	}
	utf8 := make(map[uint16]string)
	for i := uint16(1); i < cpCount; i++ {
		tag, err := c.u1()
		if err != nil {
			return false, err
		}
		switch tag {
		case tagUTF8:
			n, err := c.u2()
			if err != nil {
				return false, err
			}
			raw, err := c.bytes(int(n))
			if err != nil {
				return false, err
			}
			utf8[i] = string(raw)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			if err := c.skip(2); err != nil {
				return false, err
			}
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagInteger, tagFloat, tagDynamic, tagInvokeDynamic:
			if err := c.skip(4); err != nil {
				return false, err
			}
		case tagLong, tagDouble:
			if err := c.skip(8); err != nil {
				return false, err
			}
			i++ // these take two constant pool slots, JVMS §4.4.5
		case tagMethodHandle:
			if err := c.skip(3); err != nil {
				return false, err
			}
		default:
			return false, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}

	if err := c.skip(6); err != nil { // access_flags, this_class, super_class
		return false, err
	}
	ifaceCount, err := c.u2()
	if err != nil {
		return false, err
	}
	if err := c.skip(int(ifaceCount) * 2); err != nil {
		return false, err
	}

	fieldCount, err := c.u2()
	if err != nil {
		return false, err
	}
	for i := uint16(0); i < fieldCount; i++ {
		if err := skipMember(c); err != nil {
			return false, err
		}
	}

	methodCount, err := c.u2()
	if err != nil {
		return false, err
	}
	for i := uint16(0); i < methodCount; i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return false, err
		}
		descIdx, err := c.u2()
		if err != nil {
			return false, err
		}
		attrCount, err := c.u2()
		if err != nil {
			return false, err
		}
		match := utf8[nameIdx] == methodName && utf8[descIdx] == descriptor
		for j := uint16(0); j < attrCount; j++ {
			attrNameIdx, err := c.u2()
			if err != nil {
				return false, err
			}
			attrLen, err := c.u4()
			if err != nil {
				return false, err
			}
			if match && utf8[attrNameIdx] == "Code" {
				body, err := c.bytes(int(attrLen))
				if err != nil {
					return false, err
				}
				return codeAttrHasCode(body)
			}
			if err := c.skip(int(attrLen)); err != nil {
				return false, err
			}
		}
	}

	return false, nil
}

// skipMember consumes one field_info (or method_info without inspecting
// its attributes), JVMS §4.5/§4.6's shared shape.
func skipMember(c *cursor) error {
	if err := c.skip(6); err != nil { // access_flags, name_index, descriptor_index
		return err
	}
	attrCount, err := c.u2()
	if err != nil {
		return err
	}
	for i := uint16(0); i < attrCount; i++ {
		if err := c.skip(2); err != nil {
			return err
		}
		attrLen, err := c.u4()
		if err != nil {
			return err
		}
		if err := c.skip(int(attrLen)); err != nil {
			return err
		}
	}
	return nil
}

// codeAttrHasCode reads a Code attribute's body (JVMS §4.7.3: u2 max_stack,
// u2 max_locals, u4 code_length, then the bytecode itself) and reports
// whether code_length is non-zero.
func codeAttrHasCode(body []byte) (bool, error) {
	c := &cursor{b: body}
	if err := c.skip(4); err != nil { // max_stack, max_locals
		return false, err
	}
	codeLen, err := c.u4()
	if err != nil {
		return false, err
	}
	return codeLen > 0, nil
}
